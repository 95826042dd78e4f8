package envhook

import (
	"context"
	"fmt"
	"sync"

	aserrors "github.com/mrz1836/agentspace/internal/errors"
	"github.com/mrz1836/agentspace/internal/executor"
)

// Fake is an in-memory Hook. Exec delegates to Runner, or returns ExitCode
// when Runner is nil.
type Fake struct {
	mu sync.Mutex

	// Unavailable makes every call fail with ErrEnvironment.
	Unavailable bool

	Runner   executor.Runner
	ExitCode int

	Allowed []string
	Execs   []executor.Spec
}

// Allow implements Hook.
func (f *Fake) Allow(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return fmt.Errorf("direnv is not installed: %w", aserrors.ErrEnvironment)
	}
	f.Allowed = append(f.Allowed, path)
	return nil
}

// Exec implements Hook.
func (f *Fake) Exec(ctx context.Context, spec executor.Spec) (int, error) {
	f.mu.Lock()
	if f.Unavailable {
		f.mu.Unlock()
		return 127, fmt.Errorf("direnv is not installed: %w", aserrors.ErrEnvironment)
	}
	f.Execs = append(f.Execs, spec)
	runner, code := f.Runner, f.ExitCode
	f.mu.Unlock()

	if runner != nil {
		return runner.Run(ctx, spec)
	}
	return code, nil
}

var _ Hook = (*Fake)(nil)
