// Package config loads rolldev-mcp configuration by layering built-in
// defaults, a user-level config file and a project-level config file.
package config
