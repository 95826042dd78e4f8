package vcs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aserrors "github.com/mrz1836/agentspace/internal/errors"
)

func TestFake_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := NewFake()
	path := filepath.Join(t.TempDir(), "nested", "demo")

	require.NoError(t, f.AddWorkspace(ctx, "demo", path))
	assert.DirExists(t, path)

	names, err := f.ListWorkspaces(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "demo")

	require.ErrorIs(t, f.AddWorkspace(ctx, "demo", path), aserrors.ErrVCSOperation)

	require.NoError(t, f.CheckoutRevision(ctx, path, "abc"))
	assert.Equal(t, "abc", f.Checkout(path))

	require.NoError(t, f.ForgetWorkspace(ctx, "demo"))
	require.ErrorIs(t, f.ForgetWorkspace(ctx, "demo"), aserrors.ErrVCSOperation)

	assert.Equal(t, []string{"add demo", "checkout " + path + " abc", "forget demo"}, f.Calls)
}
