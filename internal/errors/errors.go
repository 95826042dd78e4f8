// Package errors provides centralized error handling for agentspace.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrValidation indicates malformed input: a bad workspace id, a missing
	// required flag, an empty command, or an absent manifest path.
	// Reported before any mutation.
	ErrValidation = errors.New("validation error")

	// ErrConflict indicates a workspace id is already bound to a different path.
	ErrConflict = errors.New("workspace conflict")

	// ErrEnvironment indicates a required external hook (e.g. direnv) is unavailable.
	ErrEnvironment = errors.New("environment error")

	// ErrNotFound indicates a workspace lacks the registration or metadata
	// an operation requires.
	ErrNotFound = errors.New("not found")

	// ErrVCSOperation indicates that a version-control command failed.
	ErrVCSOperation = errors.New("vcs operation failed")

	// ErrSpawnFailed indicates a wrapped command could not be started,
	// usually because its executable does not exist.
	ErrSpawnFailed = errors.New("failed to start command")

	// ErrLockTimeout indicates a file lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalid indicates an invalid configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrNotADirectory indicates a path expected to be a directory is not.
	ErrNotADirectory = errors.New("not a directory")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)

// ExitCodeError reports that a wrapped command exited non-zero.
// It is not a defect of agentspace itself: the CLI mirrors Code as its own
// exit status and prints nothing extra.
type ExitCodeError struct {
	Code int
}

// NewExitCodeError returns an ExitCodeError for the given exit code.
func NewExitCodeError(code int) *ExitCodeError {
	return &ExitCodeError{Code: code}
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// ExitCode extracts the exit code from an ExitCodeError anywhere in the chain.
func ExitCode(err error) (int, bool) {
	var e *ExitCodeError
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
