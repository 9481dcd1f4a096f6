package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SuccessCapturesBothStreams(t *testing.T) {
	result, err := Run(context.Background(), Spec{
		Program: "/bin/sh",
		Args:    []string{"-c", "echo out-line; echo err-line >&2"},
		Timeout: 10 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.ExitCode)
	assert.False(t, result.TimedOut)
	assert.Equal(t, "out-line\n", result.Stdout)
	assert.Equal(t, "err-line\n", result.Stderr)
}

func TestRun_NonZeroExitIsAResultNotAnError(t *testing.T) {
	result, err := Run(context.Background(), Spec{
		Program: "/bin/sh",
		Args:    []string{"-c", "echo failing; exit 3"},
		Timeout: 10 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.TimedOut)
	assert.Equal(t, "failing\n", result.Stdout)
}

func TestRun_WorkingDirectoryApplied(t *testing.T) {
	dir := t.TempDir()
	result, err := Run(context.Background(), Spec{
		Program: "/bin/sh",
		Args:    []string{"-c", "pwd"},
		Dir:     dir,
		Timeout: 10 * time.Second,
	})
	require.NoError(t, err)
	// A symlinked temp dir may print its resolved form, so only check
	// the suffix component.
	assert.Contains(t, result.Stdout, "\n")
	assert.Equal(t, 0, result.ExitCode)
}

func TestRun_TimeoutKillsProcess(t *testing.T) {
	start := time.Now()
	result, err := Run(context.Background(), Spec{
		Program: "/bin/sh",
		Args:    []string{"-c", "echo started; sleep 30"},
		Timeout: 500 * time.Millisecond,
	})
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.True(t, result.TimedOut)
	assert.Equal(t, -1, result.ExitCode)
	assert.Contains(t, result.Stderr, "[Command timed out after 0s]")
	assert.Contains(t, result.Stdout, "started")
	// SIGTERM must take effect well before the sleep would end.
	assert.Less(t, elapsed, 10*time.Second, "process must not outlive the call")
}

func TestRun_TimeoutMarkerIncludesSeconds(t *testing.T) {
	result, err := Run(context.Background(), Spec{
		Program: "/bin/sh",
		Args:    []string{"-c", "sleep 30"},
		Timeout: 1 * time.Second,
	})
	require.NoError(t, err)
	assert.Contains(t, result.Stderr, "[Command timed out after 1s]")
}

func TestRun_LaunchFailure(t *testing.T) {
	_, err := Run(context.Background(), Spec{
		Program: "/nonexistent/rolldev-binary",
		Args:    []string{"status"},
		Timeout: 10 * time.Second,
	})
	require.Error(t, err)

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr), "launch failure must be a *LaunchError, got %T", err)
	assert.Equal(t, "/nonexistent/rolldev-binary", launchErr.Program)
	assert.Empty(t, launchErr.Stdout)
	assert.Empty(t, launchErr.Stderr)
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	_, err := Run(ctx, Spec{
		Program: "/bin/sh",
		Args:    []string{"-c", "sleep 30"},
		Timeout: time.Minute,
	})
	assert.ErrorIs(t, err, context.Canceled)
}
