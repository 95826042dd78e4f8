package workspace

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agentspace/internal/clock"
	"github.com/mrz1836/agentspace/internal/constants"
	"github.com/mrz1836/agentspace/internal/domain"
	aserrors "github.com/mrz1836/agentspace/internal/errors"
	"github.com/mrz1836/agentspace/internal/flock"
)

// steppingClock advances by one second on every call.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func baseContext(wsPath string) UpdateContext {
	return UpdateContext{
		WorkspaceID:   "demo",
		RepoRoot:      "/src/app",
		WorkspacePath: wsPath,
	}
}

func TestMetadataStore_Load_MissingAndCorrupt(t *testing.T) {
	store := NewMetadataStore(nil, 0)
	dir := t.TempDir()

	md := store.Load(filepath.Join(dir, "absent.json"))
	assert.Equal(t, &domain.Metadata{}, md)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o600))
	md = store.Load(corrupt)
	assert.Equal(t, &domain.Metadata{}, md)
}

func TestMetadataStore_Update_CreatesRecord(t *testing.T) {
	ctx := context.Background()
	wsPath := t.TempDir()
	path := MetadataPath(wsPath)
	fixed := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	store := NewMetadataStore(clock.Fixed{T: fixed}, time.Second)

	uc := baseContext(wsPath)
	uc.Workflow = "triage"
	uc.Command = []string{"echo", "hi"}
	uc.DirenvAllowed = true
	uc.ToolsVersion = "abc"

	md, err := store.Update(ctx, path, constants.WorkspaceStatusRunning, uc)
	require.NoError(t, err)
	assert.Equal(t, constants.WorkspaceStatusRunning, md.Status)
	assert.Equal(t, fixed, md.CreatedAt)
	assert.Equal(t, fixed, md.UpdatedAt)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path) //#nosec G304 -- test file path
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "demo", raw["workspace_id"])
	assert.Equal(t, "running", raw["status"])
	assert.Equal(t, "triage", raw["workflow"])
	assert.Equal(t, []any{"echo", "hi"}, raw["command"])
	assert.Equal(t, true, raw["direnv_allowed"])
	assert.Equal(t, "abc", raw["tools_version"])
	assert.NotContains(t, raw, "base_change")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "temp files must not remain")
	}
}

func TestMetadataStore_Update_PreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	wsPath := t.TempDir()
	path := MetadataPath(wsPath)
	clk := &steppingClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMetadataStore(clk, time.Second)

	first, err := store.Update(ctx, path, constants.WorkspaceStatusRunning, baseContext(wsPath))
	require.NoError(t, err)
	second, err := store.Update(ctx, path, constants.WorkspaceStatusDone, baseContext(wsPath))
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, constants.WorkspaceStatusDone, store.Load(path).Status)
}

func TestMetadataStore_Update_ClearsOmittedFields(t *testing.T) {
	ctx := context.Background()
	wsPath := t.TempDir()
	path := MetadataPath(wsPath)
	store := NewMetadataStore(nil, time.Second)

	uc := baseContext(wsPath)
	uc.Workflow = "triage"
	uc.BaseChange = "abc123"
	uc.Command = []string{"make"}
	_, err := store.Update(ctx, path, constants.WorkspaceStatusDone, uc)
	require.NoError(t, err)

	md, err := store.Update(ctx, path, constants.WorkspaceStatusIdle, baseContext(wsPath))
	require.NoError(t, err)
	assert.Empty(t, md.Workflow)
	assert.Empty(t, md.BaseChange)
	assert.Equal(t, []string{"make"}, md.Command, "nil command keeps the stored argv")
}

func TestMetadataStore_Update_DefaultsCommandToEmptyList(t *testing.T) {
	wsPath := t.TempDir()
	path := MetadataPath(wsPath)
	store := NewMetadataStore(nil, time.Second)

	_, err := store.Update(context.Background(), path, constants.WorkspaceStatusIdle, baseContext(wsPath))
	require.NoError(t, err)

	data, err := os.ReadFile(path) //#nosec G304 -- test file path
	require.NoError(t, err)
	assert.Contains(t, string(data), `"command": []`)
}

func TestMetadataStore_Update_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	wsPath := t.TempDir()
	_, err := NewMetadataStore(nil, time.Second).Update(ctx, MetadataPath(wsPath), constants.WorkspaceStatusIdle, baseContext(wsPath))
	require.ErrorIs(t, err, context.Canceled)
}

func TestMetadataStore_Update_LockTimeout(t *testing.T) {
	ctx := context.Background()
	wsPath := t.TempDir()
	path := MetadataPath(wsPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))

	held, err := flock.Acquire(ctx, path+constants.LockSuffix, time.Second)
	require.NoError(t, err)
	defer func() { _ = held.Release() }()

	store := NewMetadataStore(nil, 100*time.Millisecond)
	_, err = store.Update(ctx, path, constants.WorkspaceStatusIdle, baseContext(wsPath))
	require.ErrorIs(t, err, aserrors.ErrLockTimeout)
}

func TestMetadataStore_Update_Concurrent(t *testing.T) {
	ctx := context.Background()
	wsPath := t.TempDir()
	path := MetadataPath(wsPath)
	store := NewMetadataStore(nil, 5*time.Second)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, path, constants.WorkspaceStatusRunning, baseContext(wsPath))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path) //#nosec G304 -- test file path
	require.NoError(t, err)
	var md domain.Metadata
	require.NoError(t, json.Unmarshal(data, &md), "file must stay valid JSON")
	assert.Equal(t, "demo", md.WorkspaceID)
}

func TestMetadataStore_ListAll(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewMetadataStore(nil, time.Second)

	for _, name := range []string{"b", "a", "c"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0o750))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), nil, 0o600))

	uc := baseContext(filepath.Join(root, "a"))
	uc.Workflow = "triage"
	_, err := store.Update(ctx, MetadataPath(filepath.Join(root, "a")), constants.WorkspaceStatusDone, uc)
	require.NoError(t, err)

	corrupt := MetadataPath(filepath.Join(root, "c"))
	require.NoError(t, os.MkdirAll(filepath.Dir(corrupt), 0o750))
	require.NoError(t, os.WriteFile(corrupt, []byte("garbage"), 0o600))

	rows, err := store.ListAll(ctx, root)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "a", rows[0].Name)
	assert.Equal(t, constants.WorkspaceStatusDone, rows[0].Status)
	assert.Equal(t, "triage", rows[0].Workflow)
	assert.NotNil(t, rows[0].UpdatedAt)

	assert.Equal(t, "b", rows[1].Name)
	assert.Equal(t, constants.WorkspaceStatusUnknown, rows[1].Status)
	assert.Nil(t, rows[1].UpdatedAt)

	assert.Equal(t, "c", rows[2].Name)
	assert.Equal(t, constants.WorkspaceStatusUnknown, rows[2].Status)
}

func TestMetadataStore_ListAll_MissingRoot(t *testing.T) {
	rows, err := NewMetadataStore(nil, 0).ListAll(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestMetadataStore_Delete(t *testing.T) {
	wsPath := t.TempDir()
	path := MetadataPath(wsPath)
	store := NewMetadataStore(nil, time.Second)

	_, err := store.Update(context.Background(), path, constants.WorkspaceStatusIdle, baseContext(wsPath))
	require.NoError(t, err)

	require.NoError(t, store.Delete(path))
	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+constants.LockSuffix)

	require.NoError(t, store.Delete(path), "deleting twice succeeds")
}
