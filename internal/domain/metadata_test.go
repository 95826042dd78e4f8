package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agentspace/internal/constants"
)

func TestMetadata_JSONFieldSet(t *testing.T) {
	ts := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	m := Metadata{
		WorkspaceID:   "demo",
		RepoRoot:      "/src/app",
		WorkspacePath: "/cache/app-0123456789/demo",
		Status:        constants.WorkspaceStatusDone,
		Command:       []string{"echo", "hello"},
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	// Empty optional fields are omitted entirely.
	for _, key := range []string{"workflow", "base_change", "tools_source", "tools_copy", "tools_version"} {
		assert.NotContains(t, fields, key)
	}
	for _, key := range []string{"workspace_id", "repo_root", "workspace_path", "status", "command", "direnv_allowed", "created_at", "updated_at"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "2026-10-18T10:00:00Z", fields["created_at"])
}
