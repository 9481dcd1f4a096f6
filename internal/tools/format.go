package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rolldevmcp/internal/executor"
	"rolldevmcp/pkg/logging"
)

// previewLength is how much of stdout stays inline when output is
// redirected to a log file.
const previewLength = 500

// commandLine reconstructs the invoked command for display, so failures
// are reproducible straight from the response text.
func commandLine(spec executor.Spec) string {
	return strings.Join(append([]string{spec.Program}, spec.Args...), " ")
}

func workingDirectory(spec executor.Spec) string {
	if spec.Dir != "" {
		return spec.Dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// renderResult formats a completed invocation as a human-readable
// response. The same layout serves success and failure; only the header
// differs.
func renderResult(spec executor.Spec, result executor.Result) string {
	var b strings.Builder

	switch {
	case result.TimedOut:
		b.WriteString("Command timed out\n")
	case result.ExitCode == 0:
		b.WriteString("Command succeeded\n")
	default:
		b.WriteString("Command failed\n")
	}

	fmt.Fprintf(&b, "Command: %s\n", commandLine(spec))
	fmt.Fprintf(&b, "Directory: %s\n", workingDirectory(spec))
	fmt.Fprintf(&b, "Exit code: %d\n", result.ExitCode)

	b.WriteString("\n--- STDOUT ---\n")
	b.WriteString(result.Stdout)
	if !strings.HasSuffix(result.Stdout, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n--- STDERR ---\n")
	b.WriteString(result.Stderr)
	if result.Stderr != "" && !strings.HasSuffix(result.Stderr, "\n") {
		b.WriteString("\n")
	}

	return b.String()
}

// renderLaunchFailure formats a failure to start the program at all,
// including whatever partial output was captured (normally none).
func renderLaunchFailure(spec executor.Spec, launchErr *executor.LaunchError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Failed to launch command: %v\n", launchErr.Err)
	fmt.Fprintf(&b, "Command: %s\n", commandLine(spec))
	fmt.Fprintf(&b, "Directory: %s\n", workingDirectory(spec))
	if launchErr.Stdout != "" {
		fmt.Fprintf(&b, "\n--- STDOUT ---\n%s", launchErr.Stdout)
	}
	if launchErr.Stderr != "" {
		fmt.Fprintf(&b, "\n--- STDERR ---\n%s", launchErr.Stderr)
	}
	b.WriteString("\nIs the RollDev CLI installed and on PATH?")
	return b.String()
}

// renderToLogFile writes the full structured output to a timestamped log
// file and returns a response carrying the file path and a fixed-length
// stdout preview. Names are nanosecond-qualified; concurrent collisions
// are accepted as vanishingly unlikely.
func (t *Tools) renderToLogFile(toolName string, spec executor.Spec, result executor.Result) (string, error) {
	if err := os.MkdirAll(t.cfg.Output.LogDir, 0o755); err != nil {
		return "", fmt.Errorf("creating log directory %s: %w", t.cfg.Output.LogDir, err)
	}

	now := time.Now()
	logPath := filepath.Join(t.cfg.Output.LogDir, fmt.Sprintf("%s-%d.log", toolName, now.UnixNano()))

	var body strings.Builder
	fmt.Fprintf(&body, "Command: %s\n", commandLine(spec))
	fmt.Fprintf(&body, "Directory: %s\n", workingDirectory(spec))
	fmt.Fprintf(&body, "Timestamp: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&body, "Exit code: %d\n", result.ExitCode)
	fmt.Fprintf(&body, "Timed out: %t\n", result.TimedOut)
	fmt.Fprintf(&body, "\n--- STDOUT ---\n%s", result.Stdout)
	fmt.Fprintf(&body, "\n--- STDERR ---\n%s", result.Stderr)

	if err := os.WriteFile(logPath, []byte(body.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing log file %s: %w", logPath, err)
	}
	logging.Info(subsystem, "Wrote %s output to %s", toolName, logPath)

	preview := result.Stdout
	if len(preview) > previewLength {
		preview = preview[:previewLength]
	}

	var b strings.Builder
	switch {
	case result.TimedOut:
		b.WriteString("Command timed out\n")
	case result.ExitCode == 0:
		b.WriteString("Command succeeded\n")
	default:
		b.WriteString("Command failed\n")
	}
	fmt.Fprintf(&b, "Command: %s\n", commandLine(spec))
	fmt.Fprintf(&b, "Directory: %s\n", workingDirectory(spec))
	fmt.Fprintf(&b, "Exit code: %d\n", result.ExitCode)
	fmt.Fprintf(&b, "Full output: %s\n", logPath)
	fmt.Fprintf(&b, "\n--- STDOUT (first %d chars) ---\n%s\n", previewLength, preview)
	return b.String(), nil
}
