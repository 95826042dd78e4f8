// Package constants provides centralized constant values used throughout agentspace.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// File and directory names inside a workspace.
const (
	// ToolsDirName is the directory inside each workspace holding the tool bundle copy.
	ToolsDirName = ".agent-tools"

	// MetadataFileName is the per-workspace metadata record, stored under ToolsDirName.
	MetadataFileName = ".agent-workflow.json"

	// VersionFileName stores the digest of the last synchronized tool bundle.
	VersionFileName = ".version"

	// LockSuffix is appended to the metadata file name to form its advisory lock file.
	LockSuffix = ".lock"

	// IgnoreFileName is the workspace-root ignore file that hides the copied payload
	// from the repository's own version control.
	IgnoreFileName = ".gitignore"

	// IgnoreContent is the body of IgnoreFileName.
	IgnoreContent = "*\n"
)

// Directory names used by agentspace for its own state.
const (
	// AppHome is the hidden directory in the user's home holding global config and logs.
	AppHome = ".agentspace"

	// CacheDirName is the default cache root, relative to the user's home directory.
	CacheDirName = ".cache/agentspace"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Lock timing for metadata updates.
const (
	// DefaultLockTimeout is how long a metadata update waits for the workspace lock.
	DefaultLockTimeout = 5 * time.Second

	// LockRetryInterval is the pause between lock attempts.
	LockRetryInterval = 50 * time.Millisecond
)

// Exit codes produced when a wrapped command cannot report its own.
const (
	// ExitCommandNotFound mirrors the shell convention for a missing executable.
	ExitCommandNotFound = 127

	// ExitSignalBase is added to a signal number when a child dies from a signal.
	ExitSignalBase = 128
)
