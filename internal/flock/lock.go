package flock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrz1836/agentspace/internal/constants"
	"github.com/mrz1836/agentspace/internal/ctxutil"
	aserrors "github.com/mrz1836/agentspace/internal/errors"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Lock is a held advisory lock. Release it exactly once.
type Lock struct {
	f *os.File
}

// Acquire takes an exclusive lock on path, creating the file and its parent
// directory if needed. It retries until timeout elapses or ctx is done.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, filePerm) //#nosec G302,G304 -- lock file path is built from a validated workspace path
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		if err := Exclusive(f.Fd()); err == nil {
			return &Lock{f: f}, nil
		}

		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("failed to lock %s: %w", path, aserrors.ErrLockTimeout)
		}

		if err := ctxutil.Sleep(ctx, constants.LockRetryInterval); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
}

// Release unlocks and closes the lock file. The file itself is left in place
// so concurrent waiters keep contending on the same inode.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil

	if err := Unlock(f.Fd()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return f.Close()
}
