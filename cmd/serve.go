package cmd

import (
	"fmt"
	"os"

	"rolldevmcp/internal/config"
	"rolldevmcp/internal/server"
	"rolldevmcp/pkg/logging"

	"github.com/spf13/cobra"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveCmd starts the MCP stdio server. This is the main command of
// rolldev-mcp: an MCP host (e.g. an AI assistant) launches the binary
// with this command and speaks the protocol over stdin/stdout.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the rolldev-mcp server on the stdio transport",
	Long: `Starts the MCP server exposing RollDev operations as tools.

The protocol runs over stdin/stdout, so this command is meant to be
launched by an MCP host rather than interactively. All logging goes to
stderr, or to a file when configured.

Configuration:
  rolldev-mcp layers defaults, ~/.config/rolldev-mcp/config.yaml and
  ./.rolldev-mcp/config.yaml. The config can override the rolldev binary
  path, per-operation timeouts and log settings.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	if serveDebug {
		level = logging.LevelDebug
	}

	// Stdout carries the MCP transport, so logs go to stderr or a file.
	logOutput := os.Stderr
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", cfg.Logging.File, err)
		}
		defer f.Close()
		logOutput = f
	}
	logging.Init(level, logOutput)

	return server.New(cfg, rootCmd.Version).Serve()
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
}
