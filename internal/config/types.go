package config

import (
	"time"
)

// Config is the top-level configuration structure for rolldev-mcp.
type Config struct {
	RollDev  RollDevConfig `yaml:"rolldev"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Logging  LoggingConfig `yaml:"logging"`
	Output   OutputConfig  `yaml:"output"`
}

// RollDevConfig describes how to invoke the external RollDev CLI.
type RollDevConfig struct {
	// Binary is the program name or absolute path of the RollDev CLI.
	Binary string `yaml:"binary,omitempty"`
}

// TimeoutConfig holds per-operation-family timeouts. Zero values fall
// back to the defaults (300s general, 600s composer, 900s init).
type TimeoutConfig struct {
	General  time.Duration `yaml:"general,omitempty"`
	Composer time.Duration `yaml:"composer,omitempty"`
	Init     time.Duration `yaml:"init,omitempty"`
}

// LoggingConfig controls the server's own log output.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
	File  string `yaml:"file,omitempty"`  // optional log file; stderr when empty
}

// OutputConfig controls where redirected command output is written when a
// tool call opts into save_output.
type OutputConfig struct {
	// LogDir overrides the default location under the system temp
	// directory (<tmp>/rolldev-mcp-logs).
	LogDir string `yaml:"logDir,omitempty"`
}
