package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice (not a map) because errors.Is() requires chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	{
		err: ErrValidation,
		info: ErrorInfo{
			Message: "The request was rejected before anything was changed.",
			Action:  "Workspace ids may only contain letters, digits, '.', '_' and '-'. Pass the command after '--'.",
		},
	},
	{
		err: ErrConflict,
		info: ErrorInfo{
			Message: "This workspace id is already bound to a different path.",
			Action:  "Run 'agentspace clean <id>' or pick another id.",
		},
	},
	{
		err: ErrEnvironment,
		info: ErrorInfo{
			Message: "A required environment tool is not available.",
			Action:  "Install direnv or pass --no-direnv.",
		},
	},
	{
		err: ErrNotFound,
		info: ErrorInfo{
			Message: "The workspace does not exist.",
			Action:  "Run 'agentspace status' to list workspaces, or create one with 'agentspace run'.",
		},
	},
	{
		err: ErrVCSOperation,
		info: ErrorInfo{
			Message: "A jj command failed.",
			Action:  "Check that you are inside a jj repository and that 'jj' is on your PATH.",
		},
	},
	{
		err: ErrSpawnFailed,
		info: ErrorInfo{
			Message: "The command could not be started.",
			Action:  "Check that the executable exists on PATH inside the workspace.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Another agentspace process is updating this workspace.",
			Action:  "Wait for it to finish and retry.",
		},
	},
	{
		err: ErrConfigInvalid,
		info: ErrorInfo{
			Message: "The configuration is invalid.",
			Action:  "Run 'agentspace config show' and fix the reported key.",
		},
	},
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action. The action is empty for errors without a known remedy.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
