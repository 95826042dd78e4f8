//go:build unix

package executor

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aserrors "github.com/mrz1836/agentspace/internal/errors"
)

func TestProcessRunner_ExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   int
	}{
		{"success", "exit 0", 0},
		{"plain failure", "exit 7", 7},
		{"high code", "exit 200", 200},
		{"killed by SIGTERM", "kill -TERM $$", 143},
		{"killed by SIGKILL", "kill -KILL $$", 137},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := ProcessRunner{}.Run(context.Background(), Spec{
				Argv: []string{"sh", "-c", tt.script},
				Dir:  t.TempDir(),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestProcessRunner_DirAndEnv(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	var out bytes.Buffer

	code, err := ProcessRunner{}.Run(context.Background(), Spec{
		Argv:   []string{"sh", "-c", `printf '%s|%s' "$(pwd)" "$GREETING"`},
		Dir:    dir,
		Env:    []string{"PATH=/usr/bin:/bin", "GREETING=hello"},
		Stdout: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, dir+"|hello", out.String())
}

func TestProcessRunner_MissingBinary(t *testing.T) {
	code, err := ProcessRunner{}.Run(context.Background(), Spec{
		Argv: []string{"definitely-not-a-real-binary-4242"},
		Dir:  t.TempDir(),
	})
	require.ErrorIs(t, err, aserrors.ErrSpawnFailed)
	assert.Equal(t, 127, code)
}

func TestProcessRunner_EmptyArgv(t *testing.T) {
	_, err := ProcessRunner{}.Run(context.Background(), Spec{})
	require.ErrorIs(t, err, aserrors.ErrValidation)
}
