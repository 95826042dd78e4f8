package executor

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/agentspace/internal/constants"
	aserrors "github.com/mrz1836/agentspace/internal/errors"
	"github.com/mrz1836/agentspace/internal/logging"
)

// Tracker persists the lifecycle of one execution.
type Tracker interface {
	// Transition records status for the workspace.
	Transition(ctx context.Context, status constants.WorkspaceStatus) error

	// Remove forgets the workspace and deletes its directory.
	Remove(ctx context.Context) error
}

// HookRunner runs a Spec through an environment activation hook.
type HookRunner interface {
	Exec(ctx context.Context, spec Spec) (int, error)
}

// Request is one command to run inside a workspace.
type Request struct {
	Argv []string
	Dir  string

	// Env is the complete child environment, before the run id is added.
	Env []string

	// Activate routes the command through the hook.
	Activate bool

	// Cleanup removes the workspace after a zero exit.
	Cleanup bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Result reports a finished execution.
type Result struct {
	RunID    string
	ExitCode int
	Status   constants.WorkspaceStatus
}

// Executor runs requests and records their outcome through a Tracker.
type Executor struct {
	runner Runner
	hook   HookRunner
}

// New returns an Executor spawning directly through runner and, for
// activated requests, through hook.
func New(runner Runner, hook HookRunner) *Executor {
	if runner == nil {
		runner = ProcessRunner{}
	}
	return &Executor{runner: runner, hook: hook}
}

// Execute marks the workspace running, runs the command, and records done
// for exit 0 or error otherwise. A non-zero exit is returned as an
// ExitCodeError carrying the child's code. A stale running status from an
// earlier crash is simply overwritten.
func (e *Executor) Execute(ctx context.Context, req Request, tracker Tracker) (Result, error) {
	if len(req.Argv) == 0 {
		return Result{}, fmt.Errorf("no command given: %w", aserrors.ErrValidation)
	}
	if req.Activate && e.hook == nil {
		return Result{}, fmt.Errorf("activation requested without a hook: %w", aserrors.ErrEnvironment)
	}

	runID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	if err := tracker.Transition(ctx, constants.WorkspaceStatusRunning); err != nil {
		return Result{RunID: runID}, fmt.Errorf("failed to mark workspace running: %w", err)
	}

	spec := Spec{
		Argv:   req.Argv,
		Dir:    req.Dir,
		Env:    MergeEnv(req.Env, map[string]string{constants.EnvRunID: runID}),
		Stdin:  req.Stdin,
		Stdout: req.Stdout,
		Stderr: req.Stderr,
	}

	logger.Info().
		Strs("argv", logging.SafeArgv(req.Argv)).
		Str("dir", req.Dir).
		Bool("activate", req.Activate).
		Msg("starting command")

	var (
		code     int
		spawnErr error
	)
	if req.Activate {
		code, spawnErr = e.hook.Exec(ctx, spec)
	} else {
		code, spawnErr = e.runner.Run(ctx, spec)
	}

	status := constants.StatusForExitCode(code)
	result := Result{RunID: runID, ExitCode: code, Status: status}

	if spawnErr != nil {
		result.Status = constants.WorkspaceStatusError
		if req.Stderr != nil {
			_, _ = fmt.Fprintf(req.Stderr, "agentspace: %v\n", spawnErr)
		}
		logger.Error().Err(spawnErr).Int("exit_code", code).Msg("command failed to start")
		if err := tracker.Transition(ctx, constants.WorkspaceStatusError); err != nil {
			logger.Warn().Err(err).Msg("failed to record error status")
		}
		return result, fmt.Errorf("%w: %w", spawnErr, aserrors.NewExitCodeError(code))
	}

	logger.Info().Int("exit_code", code).Str("status", status.String()).Msg("command finished")

	if err := tracker.Transition(ctx, status); err != nil {
		err = fmt.Errorf("failed to record %s status: %w", status, err)
		if code == 0 {
			return result, err
		}
		// Errors carrying an exit code are not printed by the CLI.
		if req.Stderr != nil {
			_, _ = fmt.Fprintf(req.Stderr, "agentspace: %v\n", err)
		}
		logger.Error().Err(err).Int("exit_code", code).Msg("failed to record final status")
		return result, fmt.Errorf("%w: %w", err, aserrors.NewExitCodeError(code))
	}

	if code != 0 {
		return result, aserrors.NewExitCodeError(code)
	}

	if req.Cleanup {
		if err := tracker.Remove(ctx); err != nil {
			return result, fmt.Errorf("failed to clean up workspace: %w", err)
		}
		logger.Info().Msg("workspace removed after successful run")
	}

	return result, nil
}
