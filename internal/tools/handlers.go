package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rolldevmcp/internal/executor"
	"rolldevmcp/internal/rolldev"
	"rolldevmcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

func (t *Tools) handleStartProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := ResolveProjectPath(request.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.dispatch(ctx, request, dir, t.cfg.Timeouts.General, "env", "up")
}

func (t *Tools) handleStopProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := ResolveProjectPath(request.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.dispatch(ctx, request, dir, t.cfg.Timeouts.General, "env", "down")
}

func (t *Tools) handleStartServices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := ResolveProjectPath(request.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.dispatch(ctx, request, dir, t.cfg.Timeouts.General, "svc", "up")
}

func (t *Tools) handleStopServices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := ResolveProjectPath(request.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.dispatch(ctx, request, dir, t.cfg.Timeouts.General, "svc", "down")
}

func (t *Tools) handleDBQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := ResolveProjectPath(request.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query := request.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError((&MissingArgumentError{Name: "query"}).Error()), nil
	}
	return t.dispatch(ctx, request, dir, t.cfg.Timeouts.General, "db", "-e", query)
}

func (t *Tools) handleRunScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := ResolveProjectPath(request.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scriptPath := request.GetString("script_path", "")
	if strings.TrimSpace(scriptPath) == "" {
		return mcp.NewToolResultError((&MissingArgumentError{Name: "script_path"}).Error()), nil
	}
	extra, err := stringSliceArg(request, "args")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := append([]string{"cli", "php", scriptPath}, extra...)
	return t.dispatch(ctx, request, dir, t.cfg.Timeouts.General, args...)
}

func (t *Tools) handleMagentoCLI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := ResolveProjectPath(request.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	command := request.GetString("command", "")
	if strings.TrimSpace(command) == "" {
		return mcp.NewToolResultError((&MissingArgumentError{Name: "command"}).Error()), nil
	}
	extra, err := stringSliceArg(request, "args")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := append([]string{"magento", command}, extra...)
	return t.dispatch(ctx, request, dir, t.cfg.Timeouts.General, args...)
}

func (t *Tools) handleComposerCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := ResolveProjectPath(request.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	command := request.GetString("command", "")
	tokens := strings.Fields(command)
	if len(tokens) == 0 {
		return mcp.NewToolResultError((&MissingArgumentError{Name: "command"}).Error()), nil
	}

	args := append([]string{"composer"}, tokens...)
	return t.dispatch(ctx, request, dir, t.cfg.Timeouts.Composer, args...)
}

func (t *Tools) handleInitProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := ResolveProjectPath(request.GetString("project_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	projectName := request.GetString("project_name", "")
	if strings.TrimSpace(projectName) == "" {
		return mcp.NewToolResultError((&MissingArgumentError{Name: "project_name"}).Error()), nil
	}

	args := []string{"magento2-init", projectName}
	if version := request.GetString("version", ""); version != "" {
		args = append(args, version)
	}
	if targetDir := request.GetString("target_dir", ""); targetDir != "" {
		args = append(args, targetDir)
	}
	return t.dispatch(ctx, request, dir, t.cfg.Timeouts.Init, args...)
}

// listEnvironmentsResult is the structured payload of list_environments.
type listEnvironmentsResult struct {
	Success      bool                  `json:"success"`
	ExitCode     int                   `json:"exit_code"`
	Environments []rolldev.Environment `json:"environments"`
	RawOutput    string                `json:"raw_output"`
}

// handleListEnvironments runs `rolldev status` in the server's own
// working directory (no project path, no preflight) and returns parsed
// environment records instead of prose.
func (t *Tools) handleListEnvironments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec := executor.Spec{
		Program: t.cfg.RollDev.Binary,
		Args:    []string{"status"},
		Timeout: t.cfg.Timeouts.General,
	}

	result, err := t.run(ctx, spec)
	if err != nil {
		var launchErr *executor.LaunchError
		if errors.As(err, &launchErr) {
			return mcp.NewToolResultError(renderLaunchFailure(spec, launchErr)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to run %s: %v", commandLine(spec), err)), nil
	}

	envs := rolldev.ParseStatus(result.Stdout)
	if envs == nil {
		envs = []rolldev.Environment{}
	}
	logging.Debug(subsystem, "list_environments parsed %d environments", len(envs))

	payload := listEnvironmentsResult{
		Success:      result.ExitCode == 0,
		ExitCode:     result.ExitCode,
		Environments: envs,
		RawOutput:    result.Stdout,
	}
	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format environments: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// dispatch runs the RollDev CLI with the given argument vector and turns
// the outcome into a tool result. Non-zero exit and timeout come back as
// failure-flagged results with full output; only launch failures and
// internal faults use the error path.
func (t *Tools) dispatch(ctx context.Context, request mcp.CallToolRequest, dir string, timeout time.Duration, args ...string) (*mcp.CallToolResult, error) {
	spec := executor.Spec{
		Program: t.cfg.RollDev.Binary,
		Args:    args,
		Dir:     dir,
		Timeout: timeout,
	}

	result, err := t.run(ctx, spec)
	if err != nil {
		var launchErr *executor.LaunchError
		if errors.As(err, &launchErr) {
			logging.Error(subsystem, err, "%s could not be launched", spec.Program)
			return mcp.NewToolResultError(renderLaunchFailure(spec, launchErr)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to run %s: %v", commandLine(spec), err)), nil
	}

	if request.GetBool("save_output", false) {
		text, err := t.renderToLogFile(request.Params.Name, spec, result)
		if err != nil {
			logging.Error(subsystem, err, "could not write output log, falling back to inline output")
		} else {
			if result.ExitCode == 0 {
				return mcp.NewToolResultText(text), nil
			}
			return mcp.NewToolResultError(text), nil
		}
	}

	text := renderResult(spec, result)
	if result.ExitCode == 0 {
		return mcp.NewToolResultText(text), nil
	}
	return mcp.NewToolResultError(text), nil
}

// stringSliceArg reads an optional array-of-strings argument.
func stringSliceArg(request mcp.CallToolRequest, key string) ([]string, error) {
	raw := request.GetArguments()[key]
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("argument %s must be an array of strings", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("argument %s must contain only strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}
