package config

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/agentspace/internal/constants"
	"github.com/mrz1836/agentspace/internal/testutil"
)

// MockCommandExecutor is a test double for CommandExecutor.
// Maps are written before Detect runs and only read concurrently.
type MockCommandExecutor struct {
	paths   map[string]string
	outputs map[string]string
	runErrs map[string]error
}

func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		paths:   map[string]string{},
		outputs: map[string]string{},
		runErrs: map[string]error{},
	}
}

func (m *MockCommandExecutor) Install(name, output string) {
	m.paths[name] = "/usr/local/bin/" + name
	m.outputs[name] = output
}

func (m *MockCommandExecutor) LookPath(file string) (string, error) {
	if p, ok := m.paths[file]; ok {
		return p, nil
	}
	return "", exec.ErrNotFound
}

func (m *MockCommandExecutor) Run(_ context.Context, name string, args ...string) (string, error) {
	if err, ok := m.runErrs[name]; ok {
		return "", err
	}
	if strings.Join(args, " ") != constants.VersionFlagStandard {
		return "", testutil.ErrMockVersion
	}
	return m.outputs[name], nil
}

func findToolByName(result *ToolDetectionResult, name string) *Tool {
	for i := range result.Tools {
		if result.Tools[i].Name == name {
			return &result.Tools[i]
		}
	}
	return nil
}

func TestToolStatus_String(t *testing.T) {
	assert.Equal(t, "installed", ToolStatusInstalled.String())
	assert.Equal(t, "missing", ToolStatusMissing.String())
	assert.Equal(t, "outdated", ToolStatusOutdated.String())
	assert.Equal(t, "unknown", ToolStatus(99).String())
}

func TestToolStatus_JSON(t *testing.T) {
	data, err := json.Marshal(Tool{Name: "jj", Status: ToolStatusOutdated})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"outdated"`)

	var tool Tool
	require.NoError(t, json.Unmarshal(data, &tool))
	assert.Equal(t, ToolStatusOutdated, tool.Status)

	var s ToolStatus
	require.NoError(t, json.Unmarshal([]byte(`"bogus"`), &s))
	assert.Equal(t, ToolStatusMissing, s)
}

func TestToolDetector_AllPresent(t *testing.T) {
	mock := NewMockCommandExecutor()
	mock.Install("jj", "jj 0.25.0-1b2f3e4d5c")
	mock.Install("direnv", "2.34.0\n")

	result, err := NewToolDetectorWithExecutor(mock, true).Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Tools, 2)
	assert.Equal(t, "direnv", result.Tools[0].Name, "tools are sorted by name")
	assert.False(t, result.HasMissingRequired)

	jj := findToolByName(result, "jj")
	require.NotNil(t, jj)
	assert.Equal(t, "0.25.0", jj.CurrentVersion)
	assert.Equal(t, ToolStatusInstalled, jj.Status)
	assert.True(t, jj.Required)
}

func TestToolDetector_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(m *MockCommandExecutor)
		direnvRequired bool
		tool           string
		wantStatus     ToolStatus
		wantVersion    string
		wantMissing    bool
	}{
		{
			name:        "jj missing",
			setup:       func(m *MockCommandExecutor) { m.Install("direnv", "2.34.0") },
			tool:        "jj",
			wantStatus:  ToolStatusMissing,
			wantMissing: true,
		},
		{
			name: "jj outdated",
			setup: func(m *MockCommandExecutor) {
				m.Install("jj", "jj 0.12.0")
			},
			tool:        "jj",
			wantStatus:  ToolStatusOutdated,
			wantVersion: "0.12.0",
			wantMissing: true,
		},
		{
			name: "direnv missing but optional",
			setup: func(m *MockCommandExecutor) {
				m.Install("jj", "jj 0.30.0")
			},
			tool:       "direnv",
			wantStatus: ToolStatusMissing,
		},
		{
			name: "direnv missing and required",
			setup: func(m *MockCommandExecutor) {
				m.Install("jj", "jj 0.30.0")
			},
			direnvRequired: true,
			tool:           "direnv",
			wantStatus:     ToolStatusMissing,
			wantMissing:    true,
		},
		{
			name: "version command fails",
			setup: func(m *MockCommandExecutor) {
				m.Install("jj", "")
				m.runErrs["jj"] = testutil.ErrMockVersion
			},
			tool:        "jj",
			wantStatus:  ToolStatusInstalled,
			wantVersion: "unknown",
		},
		{
			name: "unparseable version",
			setup: func(m *MockCommandExecutor) {
				m.Install("jj", "jj (development build)")
			},
			tool:        "jj",
			wantStatus:  ToolStatusInstalled,
			wantVersion: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockCommandExecutor()
			tt.setup(mock)

			result, err := NewToolDetectorWithExecutor(mock, tt.direnvRequired).Detect(context.Background())
			require.NoError(t, err)

			tool := findToolByName(result, tt.tool)
			require.NotNil(t, tool)
			assert.Equal(t, tt.wantStatus, tool.Status)
			if tt.wantVersion != "" {
				assert.Equal(t, tt.wantVersion, tool.CurrentVersion)
			}
			assert.Equal(t, tt.wantMissing, result.HasMissingRequired)
		})
	}
}

func TestToolDetector_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewToolDetectorWithExecutor(NewMockCommandExecutor(), false).Detect(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		current, required string
		want              int
	}{
		{"0.25.0", "0.20.0", 1},
		{"0.20.0", "0.20.0", 0},
		{"v0.20", "0.20.0", 0},
		{"0.19.9", "0.20.0", -1},
		{"2.34.0", "2.20.0", 1},
		{"1.99.99", "2.0.0", -1},
		{"0.5.x", "0.5.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.current+"_vs_"+tt.required, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.current, tt.required))
		})
	}
}

func TestParseJJVersion(t *testing.T) {
	assert.Equal(t, "0.25.0", parseJJVersion("jj 0.25.0-1b2f3e4d5c\n"))
	assert.Equal(t, "0.31.0", parseJJVersion("0.31.0"))
	assert.Empty(t, parseJJVersion("jj"))
}

func TestFormatMissingToolsError(t *testing.T) {
	assert.Empty(t, FormatMissingToolsError(nil))

	msg := FormatMissingToolsError([]Tool{
		{Name: "jj", Status: ToolStatusMissing, InstallHint: "install jj"},
		{Name: "direnv", Status: ToolStatusOutdated, CurrentVersion: "2.1.0", MinVersion: "2.20.0", InstallHint: "install direnv"},
	})
	assert.Contains(t, msg, "jj: missing")
	assert.Contains(t, msg, "direnv: outdated (have 2.1.0, need 2.20.0)")
	assert.Contains(t, msg, "Install: install jj")
}
