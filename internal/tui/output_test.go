package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, "json"))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, "text"))
}

func TestJSONOutput_DropsMessages(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)
	out.Success("ok")
	out.Info("info")
	out.Warning("warn")
	assert.Empty(t, buf.String())

	require.NoError(t, out.JSON(map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}

func TestTTYOutput_Success(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	NewTTYOutput(&buf).Success("cleaned demo")
	assert.Contains(t, buf.String(), "✓ cleaned demo")
}
