//go:build unix

package flock_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aserrors "github.com/mrz1836/agentspace/internal/errors"
	"github.com/mrz1836/agentspace/internal/flock"
)

func TestExclusive_SecondDescriptorBlocked(t *testing.T) {
	t.Parallel()
	lockFile := filepath.Join(t.TempDir(), "test.lock")

	f1, err := os.OpenFile(lockFile, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- test temp dir
	require.NoError(t, err)
	defer func() { _ = f1.Close() }()
	require.NoError(t, flock.Exclusive(f1.Fd()))

	f2, err := os.OpenFile(lockFile, os.O_RDWR, 0o600) // #nosec G304 -- test temp dir
	require.NoError(t, err)
	defer func() { _ = f2.Close() }()
	require.Error(t, flock.Exclusive(f2.Fd()), "non-blocking lock must fail while held")

	require.NoError(t, flock.Unlock(f1.Fd()))
	require.NoError(t, flock.Exclusive(f2.Fd()))
	require.NoError(t, flock.Unlock(f2.Fd()))
}

func TestAcquire(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directory and lock file", func(t *testing.T) {
		t.Parallel()
		lockPath := filepath.Join(t.TempDir(), "nested", "meta.json.lock")

		lock, err := flock.Acquire(context.Background(), lockPath, time.Second)
		require.NoError(t, err)
		assert.FileExists(t, lockPath)
		require.NoError(t, lock.Release())
		// Second release is a no-op.
		require.NoError(t, lock.Release())
	})

	t.Run("times out while another holder keeps the lock", func(t *testing.T) {
		t.Parallel()
		lockPath := filepath.Join(t.TempDir(), "meta.json.lock")

		held, err := flock.Acquire(context.Background(), lockPath, time.Second)
		require.NoError(t, err)
		defer func() { _ = held.Release() }()

		_, err = flock.Acquire(context.Background(), lockPath, 100*time.Millisecond)
		require.ErrorIs(t, err, aserrors.ErrLockTimeout)
	})

	t.Run("can be reacquired after release", func(t *testing.T) {
		t.Parallel()
		lockPath := filepath.Join(t.TempDir(), "meta.json.lock")

		first, err := flock.Acquire(context.Background(), lockPath, time.Second)
		require.NoError(t, err)
		require.NoError(t, first.Release())

		second, err := flock.Acquire(context.Background(), lockPath, time.Second)
		require.NoError(t, err)
		require.NoError(t, second.Release())
	})

	t.Run("stops waiting when context is canceled", func(t *testing.T) {
		t.Parallel()
		lockPath := filepath.Join(t.TempDir(), "meta.json.lock")

		held, err := flock.Acquire(context.Background(), lockPath, time.Second)
		require.NoError(t, err)
		defer func() { _ = held.Release() }()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = flock.Acquire(ctx, lockPath, time.Minute)
		require.ErrorIs(t, err, context.Canceled)
	})
}
