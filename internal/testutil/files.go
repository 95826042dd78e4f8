package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile creates path with content and mode perm, creating parent
// directories as needed. perm is applied explicitly so the umask does not
// alter it.
func WriteFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
}

// WriteManifest populates repoRoot with one entry per default manifest
// path: AGENTS.md, .agents/prompt.md and an executable scripts/agent/run.sh.
func WriteManifest(t *testing.T, repoRoot string) {
	t.Helper()
	WriteFile(t, filepath.Join(repoRoot, "AGENTS.md"), "agents\n", 0o644)
	WriteFile(t, filepath.Join(repoRoot, ".agents", "prompt.md"), "prompt\n", 0o644)
	WriteFile(t, filepath.Join(repoRoot, "scripts", "agent", "run.sh"), "#!/bin/sh\necho run\n", 0o755)
}
