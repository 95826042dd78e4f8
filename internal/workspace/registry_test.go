package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agentspace/internal/constants"
	aserrors "github.com/mrz1836/agentspace/internal/errors"
	"github.com/mrz1836/agentspace/internal/testutil"
	"github.com/mrz1836/agentspace/internal/vcs"
)

func newTestRegistry() (*Registry, *vcs.Fake, *MetadataStore) {
	backend := vcs.NewFake()
	store := NewMetadataStore(nil, time.Second)
	return NewRegistry(backend, store), backend, store
}

func TestRegistry_Ensure_CreatesWorkspace(t *testing.T) {
	ctx := context.Background()
	reg, backend, _ := newTestRegistry()
	path := filepath.Join(t.TempDir(), "slug", "demo")

	res, err := reg.Ensure(ctx, "demo", path, "")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.DirExists(t, path)
	assert.Equal(t, []string{"add demo"}, backend.Calls)
}

func TestRegistry_Ensure_ChecksOutBaseChangeOnCreate(t *testing.T) {
	ctx := context.Background()
	reg, backend, _ := newTestRegistry()
	path := filepath.Join(t.TempDir(), "demo")

	_, err := reg.Ensure(ctx, "demo", path, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", backend.Checkout(path))

	res, err := reg.Ensure(ctx, "demo", path, "def456")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "abc123", backend.Checkout(path), "existing workspace is not checked out again")
	assert.Equal(t, []string{"add demo", "checkout " + path + " abc123"}, backend.Calls)
}

func TestRegistry_Ensure_FailedCheckoutRollsBack(t *testing.T) {
	ctx := context.Background()
	reg, backend, _ := newTestRegistry()
	path := filepath.Join(t.TempDir(), "slug", "demo")
	backend.CheckoutErr = testutil.ErrMockVCS

	res, err := reg.Ensure(ctx, "demo", path, "main")
	require.ErrorIs(t, err, testutil.ErrMockVCS)
	assert.False(t, res.Created)

	registered, err := reg.IsRegistered(ctx, "demo")
	require.NoError(t, err)
	assert.False(t, registered)
	assert.NoDirExists(t, path)

	backend.CheckoutErr = nil
	res, err = reg.Ensure(ctx, "demo", path, "main")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "main", backend.Checkout(path))
}

func TestRegistry_Ensure_ExistingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	reg, backend, _ := newTestRegistry()
	path := t.TempDir()
	backend.Register("demo", path)

	res, err := reg.Ensure(ctx, "demo", path, "")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Empty(t, backend.Calls)
}

func TestRegistry_Ensure_ConflictOnRecordedPath(t *testing.T) {
	ctx := context.Background()
	reg, backend, store := newTestRegistry()
	root := t.TempDir()
	p1 := filepath.Join(root, "p1")
	p2 := filepath.Join(root, "p2")
	backend.Register("demo", p1)

	uc := baseContext(p1)
	_, err := store.Update(ctx, MetadataPath(p2), constants.WorkspaceStatusIdle, uc)
	require.NoError(t, err)

	_, err = reg.Ensure(ctx, "demo", p2, "")
	require.ErrorIs(t, err, aserrors.ErrConflict)
	assert.Empty(t, backend.Calls, "nothing is mutated on conflict")
}

func TestRegistry_Ensure_ConflictOnMissingDirectory(t *testing.T) {
	ctx := context.Background()
	reg, backend, _ := newTestRegistry()
	path := filepath.Join(t.TempDir(), "gone")
	backend.Register("demo", path)

	_, err := reg.Ensure(ctx, "demo", path, "")
	require.ErrorIs(t, err, aserrors.ErrConflict)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRegistry_Ensure_ListError(t *testing.T) {
	reg, backend, _ := newTestRegistry()
	backend.ListErr = testutil.ErrMockVCS

	_, err := reg.Ensure(context.Background(), "demo", t.TempDir(), "")
	require.ErrorIs(t, err, testutil.ErrMockVCS)
}

func TestRegistry_Forget(t *testing.T) {
	ctx := context.Background()
	reg, backend, _ := newTestRegistry()
	backend.Register("demo", t.TempDir())

	require.NoError(t, reg.Forget(ctx, "demo"))
	ok, err := reg.IsRegistered(ctx, "demo")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, reg.Forget(ctx, "demo"), "forgetting an unknown id succeeds")
	assert.Equal(t, []string{"forget demo"}, backend.Calls)
}
