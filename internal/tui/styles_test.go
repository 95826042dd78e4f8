package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/agentspace/internal/constants"
)

func TestStatusColors_CoverEveryStatus(t *testing.T) {
	colors := StatusColors()
	for _, status := range []constants.WorkspaceStatus{
		constants.WorkspaceStatusIdle,
		constants.WorkspaceStatusRunning,
		constants.WorkspaceStatusDone,
		constants.WorkspaceStatusError,
		constants.WorkspaceStatusUnknown,
	} {
		_, ok := colors[status]
		assert.True(t, ok, "missing color for %s", status)
	}
}

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "✓", StatusIcon(constants.WorkspaceStatusDone))
	assert.Equal(t, "✗", StatusIcon(constants.WorkspaceStatusError))
	assert.Equal(t, "●", StatusIcon(constants.WorkspaceStatusRunning))
	assert.Equal(t, "○", StatusIcon(constants.WorkspaceStatusIdle))
	assert.Equal(t, "?", StatusIcon("bogus"))
}

func TestHasColorSupport(t *testing.T) {
	t.Run("NO_COLOR set", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.False(t, HasColorSupport())
	})

	t.Run("dumb terminal", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		assert.False(t, HasColorSupport())
	})
}
