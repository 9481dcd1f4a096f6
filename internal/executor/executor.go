// Package executor runs external commands with captured output and an
// enforced timeout.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"rolldevmcp/pkg/logging"
)

const subsystem = "Executor"

// killGraceWindow is how long a timed-out process gets to honor SIGTERM
// before it is killed outright.
const killGraceWindow = 5 * time.Second

// Spec describes one external command invocation.
type Spec struct {
	Program string
	Args    []string
	Dir     string
	Timeout time.Duration
}

// Result is the outcome of one completed (or timed-out) invocation.
// ExitCode is -1 only on the timeout path; a launch failure never
// produces a Result.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
}

// LaunchError means the program could not be started at all, for example
// when the RollDev CLI is not installed. It carries whatever output was
// captured before the failure, which is normally none.
type LaunchError struct {
	Program string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Run executes spec.Program to completion or timeout and returns the
// captured output. The process never outlives the call: on timeout the
// process group gets SIGTERM, then SIGKILL after the grace window.
func Run(ctx context.Context, spec Spec) (Result, error) {
	cmd := exec.Command(spec.Program, spec.Args...)
	cmd.Dir = spec.Dir
	// Own process group so a kill reaches children spawned by the CLI.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = nil

	logging.Debug(subsystem, "Running %s %v (dir=%s, timeout=%s)", spec.Program, spec.Args, spec.Dir, spec.Timeout)

	if err := cmd.Start(); err != nil {
		return Result{}, &LaunchError{
			Program: spec.Program,
			Stdout:  stdoutBuf.String(),
			Stderr:  stderrBuf.String(),
			Err:     err,
		}
	}

	pid := cmd.Process.Pid
	processDone := make(chan error, 1)
	go func() { processDone <- cmd.Wait() }()

	timer := time.NewTimer(spec.Timeout)
	defer timer.Stop()

	select {
	case waitErr := <-processDone:
		exitCode := cmd.ProcessState.ExitCode()
		if waitErr != nil {
			if _, ok := waitErr.(*exec.ExitError); !ok {
				// I/O failure while collecting output, not a program exit.
				return Result{}, fmt.Errorf("waiting for %s: %w", spec.Program, waitErr)
			}
			logging.Debug(subsystem, "%s exited with code %d", spec.Program, exitCode)
		}
		return Result{
			Stdout:   stdoutBuf.String(),
			Stderr:   stderrBuf.String(),
			ExitCode: exitCode,
			TimedOut: false,
		}, nil

	case <-ctx.Done():
		terminate(pid, processDone)
		return Result{}, ctx.Err()

	case <-timer.C:
		logging.Warn(subsystem, "%s exceeded its %s timeout, terminating (pid %d)", spec.Program, spec.Timeout, pid)
		terminate(pid, processDone)
		stderr := stderrBuf.String()
		if stderr != "" {
			stderr += "\n"
		}
		stderr += fmt.Sprintf("[Command timed out after %ds]", int(spec.Timeout.Seconds()))
		return Result{
			Stdout:   stdoutBuf.String(),
			Stderr:   stderr,
			ExitCode: -1,
			TimedOut: true,
		}, nil
	}
}

// terminate asks the process group to exit and kills it if it does not
// comply within the grace window. It returns only once the wait
// goroutine has observed the exit, so late completion can never race a
// caller that has already moved on.
func terminate(pid int, processDone <-chan error) {
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		// Process may have exited between the timeout firing and the
		// signal; fall through to draining the done channel.
		logging.Debug(subsystem, "SIGTERM to pgid %d failed: %v", pid, err)
	}

	select {
	case <-processDone:
		return
	case <-time.After(killGraceWindow):
		if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
			logging.Debug(subsystem, "SIGKILL to pgid %d failed: %v", pid, err)
		}
		<-processDone
	}
}
