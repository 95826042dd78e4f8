package constants

// WorkspaceStatus represents the execution state recorded in a workspace's metadata.
// Status values are lowercase for JSON serialization compatibility.
type WorkspaceStatus string

// Workspace status constants follow the executor state machine:
//
//	Idle → Running
//	Running → Done, Error
//
// A Running status left behind by a crashed wrapper is stale and is
// overwritten by the next run.
const (
	// WorkspaceStatusIdle indicates the workspace exists but nothing has run yet,
	// or its tools were refreshed without a prior run.
	WorkspaceStatusIdle WorkspaceStatus = "idle"

	// WorkspaceStatusRunning indicates a wrapped command is executing.
	WorkspaceStatusRunning WorkspaceStatus = "running"

	// WorkspaceStatusDone indicates the last wrapped command exited 0.
	WorkspaceStatusDone WorkspaceStatus = "done"

	// WorkspaceStatusError indicates the last wrapped command exited non-zero.
	WorkspaceStatusError WorkspaceStatus = "error"

	// WorkspaceStatusUnknown is reported by listings when metadata is missing or unreadable.
	// It is never persisted.
	WorkspaceStatusUnknown WorkspaceStatus = "unknown"
)

// String returns the string representation of the WorkspaceStatus.
func (s WorkspaceStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status marks a finished run.
func (s WorkspaceStatus) IsTerminal() bool {
	return s == WorkspaceStatusDone || s == WorkspaceStatusError
}

// StatusForExitCode maps a wrapped command's exit code onto the final status.
func StatusForExitCode(code int) WorkspaceStatus {
	if code == 0 {
		return WorkspaceStatusDone
	}
	return WorkspaceStatusError
}
