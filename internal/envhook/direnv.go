// Package envhook integrates the environment activation hook (direnv).
package envhook

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mrz1836/agentspace/internal/constants"
	aserrors "github.com/mrz1836/agentspace/internal/errors"
	"github.com/mrz1836/agentspace/internal/executor"
)

// Hook prepares a directory's environment and runs commands inside it.
type Hook interface {
	// Allow authorizes the hook for path. Repeating it is harmless.
	Allow(ctx context.Context, path string) error

	// Exec runs spec.Argv in spec.Dir with the hook's environment loaded
	// and returns the command's exit code.
	Exec(ctx context.Context, spec executor.Spec) (int, error)
}

// LookPathFunc resolves an executable name on PATH.
type LookPathFunc func(file string) (string, error)

// EnvrcName is the file direnv loads from an activated directory.
const EnvrcName = ".envrc"

// Direnv implements Hook with the direnv CLI. A directory without an
// .envrc has nothing to activate: Allow does nothing and Exec runs the
// command directly, so direnv need not be installed for it.
type Direnv struct {
	runner   executor.Runner
	lookPath LookPathFunc

	once    sync.Once
	binary  string
	lookErr error
}

// NewDirenv returns a Direnv running through runner. A nil lookPath uses exec.LookPath.
func NewDirenv(runner executor.Runner, lookPath LookPathFunc) *Direnv {
	if runner == nil {
		runner = executor.ProcessRunner{}
	}
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return &Direnv{runner: runner, lookPath: lookPath}
}

// resolve finds the direnv binary once.
func (d *Direnv) resolve() (string, error) {
	d.once.Do(func() {
		d.binary, d.lookErr = d.lookPath(constants.ToolDirenv)
	})
	if d.lookErr != nil {
		return "", fmt.Errorf("direnv is not installed: %w", aserrors.ErrEnvironment)
	}
	return d.binary, nil
}

// hasEnvrc reports whether dir contains an .envrc.
func hasEnvrc(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, EnvrcName))
	return err == nil
}

// Allow runs `direnv allow <path>`.
func (d *Direnv) Allow(ctx context.Context, path string) error {
	if !hasEnvrc(path) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no .envrc, skipping direnv allow")
		return nil
	}

	bin, err := d.resolve()
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	code, err := d.runner.Run(ctx, executor.Spec{
		Argv:   []string{bin, "allow", path},
		Dir:    path,
		Stderr: &stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to run direnv allow: %w: %w", aserrors.ErrEnvironment, err)
	}
	if code != 0 {
		return fmt.Errorf("direnv allow exited %d: %s: %w", code, strings.TrimSpace(stderr.String()), aserrors.ErrEnvironment)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("direnv allowed")
	return nil
}

// Exec runs `direnv exec <dir> argv...`.
func (d *Direnv) Exec(ctx context.Context, spec executor.Spec) (int, error) {
	if !hasEnvrc(spec.Dir) {
		return d.runner.Run(ctx, spec)
	}

	bin, err := d.resolve()
	if err != nil {
		return constants.ExitCommandNotFound, err
	}

	wrapped := spec
	wrapped.Argv = append([]string{bin, "exec", spec.Dir}, spec.Argv...)
	return d.runner.Run(ctx, wrapped)
}

var (
	_ Hook                = (*Direnv)(nil)
	_ executor.HookRunner = (*Direnv)(nil)
)
