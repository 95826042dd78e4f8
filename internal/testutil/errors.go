// Package testutil provides shared fixtures for agentspace tests.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors injected into fakes to simulate failures.
var (
	// ErrMockVCS simulates a failing jj invocation.
	ErrMockVCS = errors.New("jj command failed")

	// ErrMockPermission simulates a filesystem permission failure.
	ErrMockPermission = errors.New("permission denied")

	// ErrMockHook simulates a failing activation hook.
	ErrMockHook = errors.New("direnv failed")

	// ErrMockVersion simulates a tool that rejects its version flag.
	ErrMockVersion = errors.New("version flag not supported")
)
