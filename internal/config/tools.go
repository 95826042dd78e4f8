// This file implements detection of the external tools agentspace drives.

package config

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/agentspace/internal/constants"
)

//nolint:gochecknoglobals // compiled once
var (
	jjVersionRe      = regexp.MustCompile(`jj (\d+\.\d+(?:\.\d+)?)`)
	genericVersionRe = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)
)

// ToolStatus represents the installation status of an external tool.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type ToolStatus int

const (
	// ToolStatusMissing indicates the tool is not installed.
	ToolStatusMissing ToolStatus = iota

	// ToolStatusInstalled indicates the tool is installed and meets version requirements.
	ToolStatusInstalled

	// ToolStatusOutdated indicates the tool is installed but below the minimum version.
	ToolStatusOutdated
)

// maxVersionSegments is the number of segments in a semantic version (major.minor.patch).
const maxVersionSegments = 3

// String returns a human-readable representation of the tool status.
func (s ToolStatus) String() string {
	switch s {
	case ToolStatusInstalled:
		return "installed"
	case ToolStatusMissing:
		return "missing"
	case ToolStatusOutdated:
		return "outdated"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for human-readable JSON output.
func (s ToolStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for parsing JSON status strings.
func (s *ToolStatus) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "installed":
		*s = ToolStatusInstalled
	case "outdated":
		*s = ToolStatusOutdated
	default:
		*s = ToolStatusMissing
	}
	return nil
}

// Tool represents an external tool that agentspace depends on.
type Tool struct {
	Name           string     `json:"name"`
	Required       bool       `json:"required"`
	MinVersion     string     `json:"min_version"`
	CurrentVersion string     `json:"current_version"`
	Status         ToolStatus `json:"status"`
	InstallHint    string     `json:"install_hint"`
}

// ToolDetectionResult holds the results of detecting all tools.
type ToolDetectionResult struct {
	// Tools is sorted by name.
	Tools []Tool `json:"tools"`

	// HasMissingRequired indicates if any required tools are missing or outdated.
	HasMissingRequired bool `json:"has_missing_required"`
}

// MissingRequiredTools returns the required tools that are missing or outdated.
func (r *ToolDetectionResult) MissingRequiredTools() []Tool {
	var missing []Tool
	for _, tool := range r.Tools {
		if tool.Required && tool.Status != ToolStatusInstalled {
			missing = append(missing, tool)
		}
	}
	return missing
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the PATH.
	LookPath(file string) (string, error)

	// Run executes a command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// DefaultCommandExecutor implements CommandExecutor using os/exec.
type DefaultCommandExecutor struct{}

// LookPath searches for an executable in the PATH.
func (e *DefaultCommandExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (e *DefaultCommandExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(output), err
}

// ToolDetector detects the installation status of external tools.
type ToolDetector interface {
	Detect(ctx context.Context) (*ToolDetectionResult, error)
}

// DefaultToolDetector implements ToolDetector.
type DefaultToolDetector struct {
	executor       CommandExecutor
	direnvRequired bool
}

// NewToolDetector creates a detector using os/exec. direnvRequired marks
// direnv as mandatory, which is the case when activation is enabled.
func NewToolDetector(direnvRequired bool) *DefaultToolDetector {
	return NewToolDetectorWithExecutor(&DefaultCommandExecutor{}, direnvRequired)
}

// NewToolDetectorWithExecutor creates a detector with a custom executor.
func NewToolDetectorWithExecutor(executor CommandExecutor, direnvRequired bool) *DefaultToolDetector {
	return &DefaultToolDetector{executor: executor, direnvRequired: direnvRequired}
}

// toolConfig holds the configuration for detecting a specific tool.
type toolConfig struct {
	name        string
	minVersion  string
	required    bool
	installHint string
	parseFunc   func(output string) string
}

func (d *DefaultToolDetector) toolConfigs() []toolConfig {
	return []toolConfig{
		{
			name:        constants.ToolJJ,
			minVersion:  constants.MinVersionJJ,
			required:    true,
			installHint: "Install Jujutsu: https://jj-vcs.github.io/jj/latest/install-and-setup/",
			parseFunc:   parseJJVersion,
		},
		{
			name:        constants.ToolDirenv,
			minVersion:  constants.MinVersionDirenv,
			required:    d.direnvRequired,
			installHint: "Install direnv: https://direnv.net/docs/installation.html (or pass --no-direnv)",
			parseFunc:   parseGenericVersion,
		},
	}
}

// Detect checks all configured tools in parallel and returns their status.
func (d *DefaultToolDetector) Detect(ctx context.Context) (*ToolDetectionResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	detectCtx, cancel := context.WithTimeout(ctx, constants.ToolDetectionTimeout)
	defer cancel()

	configs := d.toolConfigs()
	result := &ToolDetectionResult{Tools: make([]Tool, 0, len(configs))}
	var resultMu sync.Mutex

	g, gCtx := errgroup.WithContext(detectCtx)
	for _, cfg := range configs {
		g.Go(func() error {
			tool := d.detectTool(gCtx, cfg)
			resultMu.Lock()
			result.Tools = append(result.Tools, tool)
			resultMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to detect tools: %w", err)
	}

	sort.Slice(result.Tools, func(i, j int) bool { return result.Tools[i].Name < result.Tools[j].Name })
	result.HasMissingRequired = len(result.MissingRequiredTools()) > 0

	return result, nil
}

// detectTool detects a single tool's status.
func (d *DefaultToolDetector) detectTool(ctx context.Context, cfg toolConfig) Tool {
	tool := Tool{
		Name:        cfg.name,
		Required:    cfg.required,
		MinVersion:  cfg.minVersion,
		InstallHint: cfg.installHint,
		Status:      ToolStatusMissing,
	}

	if _, err := d.executor.LookPath(cfg.name); err != nil {
		return tool
	}

	tool.Status = ToolStatusInstalled
	tool.CurrentVersion = "unknown"

	output, err := d.executor.Run(ctx, cfg.name, constants.VersionFlagStandard)
	if err != nil {
		// Present but unable to report a version.
		return tool
	}

	version := cfg.parseFunc(output)
	if version == "" {
		return tool
	}
	tool.CurrentVersion = version

	if cfg.minVersion != "" && CompareVersions(version, cfg.minVersion) < 0 {
		tool.Status = ToolStatusOutdated
	}

	return tool
}

// parseJJVersion parses "jj 0.25.0-1b2f3e4" → "0.25.0"
func parseJJVersion(output string) string {
	if matches := jjVersionRe.FindStringSubmatch(output); len(matches) >= 2 {
		return matches[1]
	}
	return parseGenericVersion(output)
}

// parseGenericVersion extracts a version number from generic output, e.g. "2.34.0".
func parseGenericVersion(output string) string {
	if matches := genericVersionRe.FindStringSubmatch(output); len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CompareVersions compares two semantic versions.
// Returns:
//
//	-1 if current < required
//	 0 if current == required
//	 1 if current > required
func CompareVersions(current, required string) int {
	currentParts := parseVersionParts(strings.TrimPrefix(current, "v"))
	requiredParts := parseVersionParts(strings.TrimPrefix(required, "v"))

	for i := 0; i < maxVersionSegments; i++ {
		if currentParts[i] < requiredParts[i] {
			return -1
		}
		if currentParts[i] > requiredParts[i] {
			return 1
		}
	}

	return 0
}

// parseVersionParts parses a version string into [major, minor, patch].
func parseVersionParts(version string) [maxVersionSegments]int {
	var parts [maxVersionSegments]int
	segments := strings.Split(version, ".")

	for i := 0; i < len(segments) && i < maxVersionSegments; i++ {
		// Keep only the leading digits ("0-rc1" → "0")
		numStr := segments[i]
		for j, c := range numStr {
			if c < '0' || c > '9' {
				numStr = numStr[:j]
				break
			}
		}
		if numStr != "" {
			parts[i], _ = strconv.Atoi(numStr)
		}
	}

	return parts
}

// FormatMissingToolsError creates a formatted error message for missing tools.
func FormatMissingToolsError(missing []Tool) string {
	if len(missing) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Missing required tools:\n\n")

	for _, tool := range missing {
		status := "missing"
		if tool.Status == ToolStatusOutdated {
			status = fmt.Sprintf("outdated (have %s, need %s)", tool.CurrentVersion, tool.MinVersion)
		}
		fmt.Fprintf(&sb, "  • %s: %s\n", tool.Name, status)
		fmt.Fprintf(&sb, "    Install: %s\n\n", tool.InstallHint)
	}

	return sb.String()
}
