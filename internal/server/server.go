// Package server assembles the rolldev-mcp MCP server and serves it over
// the stdio transport.
package server

import (
	"rolldevmcp/internal/config"
	"rolldevmcp/internal/tools"
	"rolldevmcp/pkg/logging"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
)

const subsystem = "Server"

// Server wraps the MCP server together with the tool dispatcher.
type Server struct {
	cfg       config.Config
	mcpServer *server.MCPServer
	sessionID string
}

// New creates the MCP server, registers all RollDev tools and assigns a
// session ID used to correlate log lines and output files of one run.
func New(cfg config.Config, version string) *Server {
	mcpServer := server.NewMCPServer(
		"rolldev-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	tools.New(cfg).Register(mcpServer)

	return &Server{
		cfg:       cfg,
		mcpServer: mcpServer,
		sessionID: uuid.NewString(),
	}
}

// SessionID identifies this server run.
func (s *Server) SessionID() string {
	return s.sessionID
}

// Serve runs the stdio transport until stdin closes or an error occurs.
// Stdout carries the protocol, so all logging goes to stderr or a file.
func (s *Server) Serve() error {
	logging.Info(subsystem, "Starting rolldev-mcp stdio server (session %s, binary %s)", s.sessionID, s.cfg.RollDev.Binary)
	err := server.ServeStdio(s.mcpServer)
	if err != nil {
		logging.Error(subsystem, err, "stdio server terminated")
		return err
	}
	logging.Info(subsystem, "Stdio server stopped (session %s)", s.sessionID)
	return nil
}
