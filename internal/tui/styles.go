// Package tui provides terminal output components for agentspace.
//
// Colors use AdaptiveColor for light and dark terminals. Call CheckNoColor
// before rendering to honor NO_COLOR and TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/agentspace/internal/constants"
)

//nolint:gochecknoglobals // package-level styling API
var (
	// ColorPrimary is blue, used for active states.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for successful runs.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failed runs.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for idle and unknown states.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}
)

// StatusColors returns the color of each workspace status.
func StatusColors() map[constants.WorkspaceStatus]lipgloss.AdaptiveColor {
	return map[constants.WorkspaceStatus]lipgloss.AdaptiveColor{
		constants.WorkspaceStatusIdle:    ColorMuted,
		constants.WorkspaceStatusRunning: ColorPrimary,
		constants.WorkspaceStatusDone:    ColorSuccess,
		constants.WorkspaceStatusError:   ColorError,
		constants.WorkspaceStatusUnknown: ColorMuted,
	}
}

// StatusIcon returns the symbol shown next to a workspace status.
func StatusIcon(status constants.WorkspaceStatus) string {
	switch status {
	case constants.WorkspaceStatusIdle:
		return "○"
	case constants.WorkspaceStatusRunning:
		return "●"
	case constants.WorkspaceStatusDone:
		return "✓"
	case constants.WorkspaceStatusError:
		return "✗"
	case constants.WorkspaceStatusUnknown:
		return "?"
	default:
		return "?"
	}
}

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header       lipgloss.Style
	Dim          lipgloss.Style
	StatusColors map[constants.WorkspaceStatus]lipgloss.AdaptiveColor
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		StatusColors: StatusColors(),
	}
}

// OutputStyles holds common message styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates common message styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// CheckNoColor switches lipgloss to plain ASCII when colors are unsupported.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is present (with any value) or TERM=dumb.
// See https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv(constants.EnvNoColor); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
