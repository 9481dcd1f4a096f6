// Package tools maps RollDev operations onto MCP tools: it declares the
// tool schemas, validates arguments, builds the argument vector for the
// RollDev CLI and turns execution outcomes into tool results.
package tools

import (
	"context"

	"rolldevmcp/internal/config"
	"rolldevmcp/internal/executor"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const subsystem = "Tools"

// RunFunc executes one external command. Tests substitute a fake.
type RunFunc func(ctx context.Context, spec executor.Spec) (executor.Result, error)

// Tools dispatches MCP tool calls to the RollDev CLI.
type Tools struct {
	cfg config.Config
	run RunFunc
}

// New creates the tool dispatcher backed by the real process executor.
func New(cfg config.Config) *Tools {
	return &Tools{
		cfg: cfg,
		run: executor.Run,
	}
}

// Register adds every RollDev tool to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(t.startProjectTool(), t.handleStartProject)
	s.AddTool(t.stopProjectTool(), t.handleStopProject)
	s.AddTool(t.startServicesTool(), t.handleStartServices)
	s.AddTool(t.stopServicesTool(), t.handleStopServices)
	s.AddTool(t.dbQueryTool(), t.handleDBQuery)
	s.AddTool(t.runScriptTool(), t.handleRunScript)
	s.AddTool(t.magentoCLITool(), t.handleMagentoCLI)
	s.AddTool(t.composerCommandTool(), t.handleComposerCommand)
	s.AddTool(t.initProjectTool(), t.handleInitProject)
	s.AddTool(t.listEnvironmentsTool(), t.handleListEnvironments)
}

func withSaveOutput() mcp.ToolOption {
	return mcp.WithBoolean("save_output",
		mcp.Description("Write the full command output to a log file and return only the file path plus a short stdout preview"),
	)
}

func withProjectPath() mcp.ToolOption {
	return mcp.WithString("project_path",
		mcp.Required(),
		mcp.Description("Path to the project directory"),
	)
}

func (t *Tools) startProjectTool() mcp.Tool {
	return mcp.NewTool("start_project",
		mcp.WithDescription("Start the RollDev environment of a project (rolldev env up)"),
		withProjectPath(),
		withSaveOutput(),
	)
}

func (t *Tools) stopProjectTool() mcp.Tool {
	return mcp.NewTool("stop_project",
		mcp.WithDescription("Stop the RollDev environment of a project (rolldev env down)"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			DestructiveHint: mcp.ToBoolPtr(true),
		}),
		withProjectPath(),
		withSaveOutput(),
	)
}

func (t *Tools) startServicesTool() mcp.Tool {
	return mcp.NewTool("start_services",
		mcp.WithDescription("Start the shared RollDev services like Traefik and Portainer (rolldev svc up)"),
		withProjectPath(),
		withSaveOutput(),
	)
}

func (t *Tools) stopServicesTool() mcp.Tool {
	return mcp.NewTool("stop_services",
		mcp.WithDescription("Stop the shared RollDev services (rolldev svc down)"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			DestructiveHint: mcp.ToBoolPtr(true),
		}),
		withProjectPath(),
		withSaveOutput(),
	)
}

func (t *Tools) dbQueryTool() mcp.Tool {
	return mcp.NewTool("db_query",
		mcp.WithDescription("Run a SQL query against the project database (rolldev db -e <query>)"),
		withProjectPath(),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("SQL query to execute"),
		),
		withSaveOutput(),
	)
}

func (t *Tools) runScriptTool() mcp.Tool {
	return mcp.NewTool("run_script",
		mcp.WithDescription("Execute a PHP script inside the project's CLI container (rolldev cli php <script>)"),
		withProjectPath(),
		mcp.WithString("script_path",
			mcp.Required(),
			mcp.Description("Path of the PHP script, relative to the project root inside the container"),
		),
		mcp.WithArray("args",
			mcp.Description("Extra arguments passed to the script"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		withSaveOutput(),
	)
}

func (t *Tools) magentoCLITool() mcp.Tool {
	return mcp.NewTool("magento_cli",
		mcp.WithDescription("Run a bin/magento command inside the project environment (rolldev magento <command>)"),
		withProjectPath(),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Magento CLI command, e.g. cache:flush"),
		),
		mcp.WithArray("args",
			mcp.Description("Extra arguments passed to the Magento command"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		withSaveOutput(),
	)
}

func (t *Tools) composerCommandTool() mcp.Tool {
	return mcp.NewTool("composer_command",
		mcp.WithDescription("Run a composer command inside the project environment (rolldev composer ...)"),
		withProjectPath(),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Composer command line, split on whitespace, e.g. 'require symfony/console'"),
		),
		withSaveOutput(),
	)
}

func (t *Tools) initProjectTool() mcp.Tool {
	return mcp.NewTool("init_project",
		mcp.WithDescription("Initialize a new Magento 2 project (rolldev magento2-init)"),
		withProjectPath(),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the new project"),
		),
		mcp.WithString("version",
			mcp.Description("Magento version to install, e.g. 2.4.7"),
		),
		mcp.WithString("target_dir",
			mcp.Description("Directory to create the project in"),
		),
		withSaveOutput(),
	)
}

func (t *Tools) listEnvironmentsTool() mcp.Tool {
	return mcp.NewTool("list_environments",
		mcp.WithDescription("List running RollDev environments as structured records (rolldev status)"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			ReadOnlyHint:    mcp.ToBoolPtr(true),
			DestructiveHint: mcp.ToBoolPtr(false),
		}),
	)
}
