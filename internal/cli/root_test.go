package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agentspace/internal/errors"
)

func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := execute(t, newTestRootCmd(), "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "agentspace")
	for _, want := range []string{"--output", "--verbose", "--quiet", "--cache-root", "--repo", "run", "status", "shell", "clean", "sync-tools"} {
		assert.Contains(t, stdout, want)
	}
}

func TestRootCmd_Version(t *testing.T) {
	tests := []struct {
		name           string
		info           BuildInfo
		expectContains []string
	}{
		{
			name:           "full version info",
			info:           BuildInfo{Version: "1.0.0", Commit: "abc1234", Date: "2026-10-18"},
			expectContains: []string{"1.0.0", "abc1234", "2026-10-18"},
		},
		{
			name:           "default dev version",
			info:           BuildInfo{},
			expectContains: []string{"dev", "none", "unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd(&GlobalFlags{}, tc.info)
			stdout, _, err := execute(t, cmd, "--version")
			require.NoError(t, err)
			for _, want := range tc.expectContains {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "status", "--output", "xml")
	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_VerboseQuietExclusive(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "status", "--verbose", "--quiet")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_OutputFromEnvironment(t *testing.T) {
	t.Setenv("AGENTSPACE_OUTPUT", "json")
	env := newTestEnv(t)

	stdout, _, err := env.run(t, "status")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", stdout)
}

func TestReportError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		reportError(&buf, nil)
		assert.Empty(t, buf.String())
	})

	t.Run("exit code only", func(t *testing.T) {
		var buf bytes.Buffer
		reportError(&buf, errors.NewExitCodeError(3))
		assert.Empty(t, buf.String())
	})

	t.Run("already reported as JSON", func(t *testing.T) {
		var buf bytes.Buffer
		reportError(&buf, errors.ErrJSONErrorOutput)
		assert.Empty(t, buf.String())
	})

	t.Run("actionable", func(t *testing.T) {
		var buf bytes.Buffer
		reportError(&buf, errors.Wrap(errors.ErrNotFound, "workspace \"demo\""))
		assert.Contains(t, buf.String(), "Error: workspace \"demo\"")
		assert.Contains(t, buf.String(), "▸ Try: Run 'agentspace status'")
	})
}
