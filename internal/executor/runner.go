// Package executor runs a wrapped command inside a workspace and drives the
// workspace status through idle → running → done|error around it.
package executor

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/mrz1836/agentspace/internal/constants"
	aserrors "github.com/mrz1836/agentspace/internal/errors"
	"github.com/mrz1836/agentspace/internal/signal"
)

// Spec describes one child process.
type Spec struct {
	// Argv is the program and its arguments. Argv[0] is resolved on PATH.
	Argv []string

	// Dir is the working directory.
	Dir string

	// Env is the complete environment, as KEY=VALUE pairs.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner starts a process, waits for it and reports its exit code.
//
// A non-nil error means the process could not be started; the returned code
// is then ExitCommandNotFound. A process that ran and failed is not an error.
type Runner interface {
	Run(ctx context.Context, spec Spec) (int, error)
}

// ProcessRunner implements Runner with os/exec.
//
// The child is not tied to ctx: a wrapped agent runs to completion. While it
// runs, SIGTERM and SIGHUP are forwarded to it and SIGINT is ignored so the
// caller survives to record the outcome.
type ProcessRunner struct{}

// Run implements Runner.
func (ProcessRunner) Run(_ context.Context, spec Spec) (int, error) {
	if len(spec.Argv) == 0 {
		return constants.ExitCommandNotFound, fmt.Errorf("empty command: %w", aserrors.ErrValidation)
	}

	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...) //#nosec G204 -- running the caller's command is the point
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdin = spec.Stdin
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr

	if err := cmd.Start(); err != nil {
		return constants.ExitCommandNotFound, fmt.Errorf("%s: %w: %w", spec.Argv[0], aserrors.ErrSpawnFailed, err)
	}

	relay := signal.NewRelay(func(s os.Signal) { _ = cmd.Process.Signal(s) })
	defer relay.Stop()

	return exitCode(cmd.Wait()), nil
}

// exitCode maps the result of Wait to a shell-style exit status.
// Death by signal N becomes 128+N.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !stderrors.As(err, &exitErr) {
		return 1
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return constants.ExitSignalBase + int(status.Signal())
	}
	return exitErr.ExitCode()
}
