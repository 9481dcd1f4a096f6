package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultBinary is the RollDev CLI looked up on PATH when the config
	// does not name one.
	DefaultBinary = "rolldev"

	// DefaultGeneralTimeout applies to env, svc, db, cli and magento
	// operations.
	DefaultGeneralTimeout = 300 * time.Second

	// DefaultComposerTimeout applies to dependency-management operations.
	DefaultComposerTimeout = 600 * time.Second

	// DefaultInitTimeout applies to project initialization.
	DefaultInitTimeout = 900 * time.Second

	logDirName = "rolldev-mcp-logs"
)

// GetDefaultConfig returns the built-in configuration used when no config
// file overrides anything.
func GetDefaultConfig() Config {
	return Config{
		RollDev: RollDevConfig{
			Binary: DefaultBinary,
		},
		Timeouts: TimeoutConfig{
			General:  DefaultGeneralTimeout,
			Composer: DefaultComposerTimeout,
			Init:     DefaultInitTimeout,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Output: OutputConfig{
			LogDir: filepath.Join(os.TempDir(), logDirName),
		},
	}
}
