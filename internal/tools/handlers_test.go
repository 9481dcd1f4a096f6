package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rolldevmcp/internal/config"
	"rolldevmcp/internal/executor"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records executor specs and plays back a canned outcome.
type fakeRunner struct {
	calls  []executor.Spec
	result executor.Result
	err    error
}

func (f *fakeRunner) run(ctx context.Context, spec executor.Spec) (executor.Result, error) {
	f.calls = append(f.calls, spec)
	return f.result, f.err
}

func newTestTools(t *testing.T, runner *fakeRunner) *Tools {
	t.Helper()
	cfg := config.GetDefaultConfig()
	cfg.Output.LogDir = filepath.Join(t.TempDir(), "logs")
	return &Tools{cfg: cfg, run: runner.run}
}

func newRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "content must be text")
	return textContent.Text
}

func TestHandleStartProject_BuildsEnvUpVector(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{ExitCode: 0, Stdout: "done\n"}}
	tl := newTestTools(t, runner)
	projectDir := t.TempDir()

	result, err := tl.handleStartProject(context.Background(), newRequest("start_project", map[string]interface{}{
		"project_path": projectDir,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, config.DefaultBinary, call.Program)
	assert.Equal(t, []string{"env", "up"}, call.Args)
	assert.Equal(t, projectDir, call.Dir)
	assert.Equal(t, config.DefaultGeneralTimeout, call.Timeout)
}

func TestHandleStopProject_BuildsEnvDownVector(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{ExitCode: 0}}
	tl := newTestTools(t, runner)

	_, err := tl.handleStopProject(context.Background(), newRequest("stop_project", map[string]interface{}{
		"project_path": t.TempDir(),
	}))
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"env", "down"}, runner.calls[0].Args)
}

func TestPathRequiringHandlers_MissingPathNeverSpawns(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{ExitCode: 0}}
	tl := newTestTools(t, runner)

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"start_project":    tl.handleStartProject,
		"stop_project":     tl.handleStopProject,
		"start_services":   tl.handleStartServices,
		"stop_services":    tl.handleStopServices,
		"db_query":         tl.handleDBQuery,
		"run_script":       tl.handleRunScript,
		"magento_cli":      tl.handleMagentoCLI,
		"composer_command": tl.handleComposerCommand,
		"init_project":     tl.handleInitProject,
	}

	for name, handler := range handlers {
		result, err := handler(context.Background(), newRequest(name, map[string]interface{}{}))
		require.NoError(t, err, name)
		assert.True(t, result.IsError, "%s must fail without a project path", name)
		assert.Contains(t, resultText(t, result), "Missing required argument: project_path", name)
	}
	assert.Empty(t, runner.calls, "no process may be spawned on validation failure")
}

func TestHandleStartProject_PathNotFound(t *testing.T) {
	runner := &fakeRunner{}
	tl := newTestTools(t, runner)

	result, err := tl.handleStartProject(context.Background(), newRequest("start_project", map[string]interface{}{
		"project_path": filepath.Join(t.TempDir(), "does-not-exist"),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Project path not found")
	assert.Empty(t, runner.calls)
}

func TestHandleDBQuery_VectorAndMissingQuery(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{ExitCode: 0}}
	tl := newTestTools(t, runner)
	projectDir := t.TempDir()

	result, err := tl.handleDBQuery(context.Background(), newRequest("db_query", map[string]interface{}{
		"project_path": projectDir,
		"query":        "SELECT 1",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"db", "-e", "SELECT 1"}, runner.calls[0].Args)

	result, err = tl.handleDBQuery(context.Background(), newRequest("db_query", map[string]interface{}{
		"project_path": projectDir,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Missing required argument: query")
	assert.Len(t, runner.calls, 1, "missing query must not spawn")
}

func TestHandleRunScript_VectorWithArgs(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{ExitCode: 0}}
	tl := newTestTools(t, runner)

	_, err := tl.handleRunScript(context.Background(), newRequest("run_script", map[string]interface{}{
		"project_path": t.TempDir(),
		"script_path":  "scripts/fix.php",
		"args":         []interface{}{"--dry-run", "-v"},
	}))
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"cli", "php", "scripts/fix.php", "--dry-run", "-v"}, runner.calls[0].Args)
}

func TestHandleMagentoCLI_Vector(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{ExitCode: 0}}
	tl := newTestTools(t, runner)

	_, err := tl.handleMagentoCLI(context.Background(), newRequest("magento_cli", map[string]interface{}{
		"project_path": t.TempDir(),
		"command":      "cache:flush",
		"args":         []interface{}{"config", "layout"},
	}))
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"magento", "cache:flush", "config", "layout"}, runner.calls[0].Args)
}

func TestHandleComposerCommand_SplitsOnWhitespace(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{ExitCode: 0}}
	tl := newTestTools(t, runner)

	_, err := tl.handleComposerCommand(context.Background(), newRequest("composer_command", map[string]interface{}{
		"project_path": t.TempDir(),
		"command":      "require symfony/console",
	}))
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, []string{"composer", "require", "symfony/console"}, call.Args)
	assert.Equal(t, config.DefaultComposerTimeout, call.Timeout)
}

func TestHandleInitProject_OptionalTrailingArgs(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{ExitCode: 0}}
	tl := newTestTools(t, runner)
	projectDir := t.TempDir()

	_, err := tl.handleInitProject(context.Background(), newRequest("init_project", map[string]interface{}{
		"project_path": projectDir,
		"project_name": "test-project",
		"version":      "2.4.7",
		"target_dir":   "/tmp/test",
	}))
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"magento2-init", "test-project", "2.4.7", "/tmp/test"}, runner.calls[0].Args)
	assert.Equal(t, config.DefaultInitTimeout, runner.calls[0].Timeout)

	_, err = tl.handleInitProject(context.Background(), newRequest("init_project", map[string]interface{}{
		"project_path": projectDir,
		"project_name": "test-project",
	}))
	require.NoError(t, err)
	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"magento2-init", "test-project"}, runner.calls[1].Args)
}

func TestDispatch_NonZeroExitIsFailureWithFullOutput(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{
		ExitCode: 2,
		Stdout:   "partial work\n",
		Stderr:   "boom\n",
	}}
	tl := newTestTools(t, runner)

	result, err := tl.handleStartProject(context.Background(), newRequest("start_project", map[string]interface{}{
		"project_path": t.TempDir(),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Command failed")
	assert.Contains(t, text, "Exit code: 2")
	assert.Contains(t, text, "partial work")
	assert.Contains(t, text, "boom")
	assert.Contains(t, text, "rolldev env up", "command string must be reproducible from the response")
}

func TestDispatch_TimeoutRendered(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{
		ExitCode: -1,
		TimedOut: true,
		Stderr:   "[Command timed out after 300s]",
	}}
	tl := newTestTools(t, runner)

	result, err := tl.handleStartProject(context.Background(), newRequest("start_project", map[string]interface{}{
		"project_path": t.TempDir(),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "Command timed out")
	assert.Contains(t, text, "Exit code: -1")
}

func TestDispatch_LaunchFailureSurfaced(t *testing.T) {
	runner := &fakeRunner{err: &executor.LaunchError{
		Program: "rolldev",
		Err:     os.ErrNotExist,
	}}
	tl := newTestTools(t, runner)

	result, err := tl.handleStartProject(context.Background(), newRequest("start_project", map[string]interface{}{
		"project_path": t.TempDir(),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "Failed to launch command")
	assert.Contains(t, text, "rolldev env up")
}

func TestDispatch_SaveOutputWritesLogWithPreview(t *testing.T) {
	longStdout := strings.Repeat("x", 2000)
	runner := &fakeRunner{result: executor.Result{ExitCode: 0, Stdout: longStdout, Stderr: "warnings\n"}}
	tl := newTestTools(t, runner)

	result, err := tl.handleStartProject(context.Background(), newRequest("start_project", map[string]interface{}{
		"project_path": t.TempDir(),
		"save_output":  true,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Full output: ")
	assert.NotContains(t, text, longStdout, "full stdout must not be inlined")
	assert.Contains(t, text, strings.Repeat("x", previewLength))

	// The referenced log file exists and holds the complete output.
	var logPath string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "Full output: ") {
			logPath = strings.TrimPrefix(line, "Full output: ")
		}
	}
	require.NotEmpty(t, logPath)
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), longStdout)
	assert.Contains(t, string(data), "warnings")
	assert.Contains(t, string(data), "Command: rolldev env up")
}

func TestHandleListEnvironments_StructuredPayload(t *testing.T) {
	statusOutput := `mystore a magento2 project
Project Directory: /srv/mystore
Project URL: https://mystore.test
Docker Network: mystore_default
Containers Running: 5
`
	runner := &fakeRunner{result: executor.Result{ExitCode: 0, Stdout: statusOutput}}
	tl := newTestTools(t, runner)

	result, err := tl.handleListEnvironments(context.Background(), newRequest("list_environments", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, []string{"status"}, call.Args)
	assert.Empty(t, call.Dir, "status runs from the server's own working directory")

	var payload struct {
		Success      bool `json:"success"`
		ExitCode     int  `json:"exit_code"`
		Environments []struct {
			Name       string `json:"name"`
			Path       string `json:"path"`
			URL        string `json:"url"`
			Containers int    `json:"containers"`
		} `json:"environments"`
		RawOutput string `json:"raw_output"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))

	assert.True(t, payload.Success)
	assert.Equal(t, 0, payload.ExitCode)
	require.Len(t, payload.Environments, 1)
	assert.Equal(t, "mystore", payload.Environments[0].Name)
	assert.Equal(t, "/srv/mystore", payload.Environments[0].Path)
	assert.Equal(t, 5, payload.Environments[0].Containers)
	assert.Equal(t, statusOutput, payload.RawOutput)
}

func TestHandleListEnvironments_EmptyListIsArray(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{ExitCode: 0, Stdout: "No running environments found\n"}}
	tl := newTestTools(t, runner)

	result, err := tl.handleListEnvironments(context.Background(), newRequest("list_environments", nil))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, `"environments": []`)
}

func TestResolveProjectPath(t *testing.T) {
	existing := t.TempDir()

	t.Run("empty", func(t *testing.T) {
		_, err := ResolveProjectPath("")
		var missingErr *MissingArgumentError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, "project_path", missingErr.Name)
	})

	t.Run("trailing slashes stripped", func(t *testing.T) {
		resolved, err := ResolveProjectPath(existing + "///")
		require.NoError(t, err)
		assert.Equal(t, existing, resolved)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := ResolveProjectPath(filepath.Join(existing, "nope"))
		var notFoundErr *PathNotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("relative path resolved", func(t *testing.T) {
		resolved, err := ResolveProjectPath(".")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(resolved))
	})
}

func TestDispatchTimeoutsPerFamily(t *testing.T) {
	runner := &fakeRunner{result: executor.Result{ExitCode: 0}}
	tl := newTestTools(t, runner)
	projectDir := t.TempDir()

	_, err := tl.handleMagentoCLI(context.Background(), newRequest("magento_cli", map[string]interface{}{
		"project_path": projectDir,
		"command":      "indexer:reindex",
	}))
	require.NoError(t, err)

	_, err = tl.handleComposerCommand(context.Background(), newRequest("composer_command", map[string]interface{}{
		"project_path": projectDir,
		"command":      "install",
	}))
	require.NoError(t, err)

	_, err = tl.handleInitProject(context.Background(), newRequest("init_project", map[string]interface{}{
		"project_path": projectDir,
		"project_name": "shop",
	}))
	require.NoError(t, err)

	require.Len(t, runner.calls, 3)
	assert.Equal(t, 300*time.Second, runner.calls[0].Timeout)
	assert.Equal(t, 600*time.Second, runner.calls[1].Timeout)
	assert.Equal(t, 900*time.Second, runner.calls[2].Timeout)
}
