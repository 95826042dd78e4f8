package constants

import "time"

// ToolDetectionTimeout is the maximum duration for detecting all tools.
// Detection runs in parallel but must complete within this timeout.
const ToolDetectionTimeout = 2 * time.Second

// External tools agentspace drives.
const (
	// ToolJJ is the Jujutsu version control CLI backing workspaces.
	ToolJJ = "jj"

	// ToolDirenv is the environment activation hook.
	ToolDirenv = "direnv"
)

// Minimum version requirements.
const (
	// MinVersionJJ is the first jj release with `workspace forget` and `root`.
	MinVersionJJ = "0.20.0"

	// MinVersionDirenv is the first direnv release with `direnv exec <dir>`.
	MinVersionDirenv = "2.20.0"
)

// VersionFlagStandard is the version flag used by the detected tools.
const VersionFlagStandard = "--version"
