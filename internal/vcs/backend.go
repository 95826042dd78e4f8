// Package vcs drives the version-control workspace primitive agentspace is
// layered on. JJ talks to the Jujutsu CLI; Fake keeps state in memory.
package vcs

import "context"

// RootWorkspace is the name jj gives the repository's primary working copy.
const RootWorkspace = "default"

// Backend manages named workspaces of a single repository.
type Backend interface {
	// ListWorkspaces returns the names of all registered workspaces.
	ListWorkspaces(ctx context.Context) (map[string]struct{}, error)

	// AddWorkspace registers a new workspace called name, checked out at path.
	AddWorkspace(ctx context.Context, name, path string) error

	// ForgetWorkspace unregisters name. The working copy on disk is left alone.
	ForgetWorkspace(ctx context.Context, name string) error

	// CheckoutRevision moves the workspace at workspacePath onto changeID.
	CheckoutRevision(ctx context.Context, workspacePath, changeID string) error
}
