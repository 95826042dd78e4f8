// Package domain provides shared domain types for agentspace.
package domain

import (
	"time"

	"github.com/mrz1836/agentspace/internal/constants"
)

// Metadata is the per-workspace record persisted at
// <workspace>/.agent-tools/.agent-workflow.json.
//
// Example JSON representation:
//
//	{
//	    "workspace_id": "demo",
//	    "repo_root": "/src/app",
//	    "workspace_path": "/home/me/.cache/agentspace/app-3f9c0a1b2d/demo",
//	    "status": "done",
//	    "workflow": "triage",
//	    "command": ["echo", "hello"],
//	    "direnv_allowed": true,
//	    "tools_source": "/src/app",
//	    "tools_copy": "/home/me/.cache/agentspace/app-3f9c0a1b2d/demo/.agent-tools",
//	    "tools_version": "9b74c9897bac770ffc029102a200c5de...",
//	    "created_at": "2026-10-18T10:00:00Z",
//	    "updated_at": "2026-10-18T10:05:00Z"
//	}
type Metadata struct {
	// WorkspaceID is the caller-chosen id.
	WorkspaceID string `json:"workspace_id"`

	// RepoRoot is the absolute root of the source repository.
	RepoRoot string `json:"repo_root"`

	// WorkspacePath is the directory bound to WorkspaceID. Immutable once recorded.
	WorkspacePath string `json:"workspace_path"`

	// Status is the execution state.
	Status constants.WorkspaceStatus `json:"status"`

	// Workflow is an optional caller label for the run.
	Workflow string `json:"workflow,omitempty"`

	// BaseChange is the revision checked out when the workspace was created.
	BaseChange string `json:"base_change,omitempty"`

	// Command is the argv of the last wrapped command.
	Command []string `json:"command"`

	// DirenvAllowed records whether the last command ran through the activation hook.
	DirenvAllowed bool `json:"direnv_allowed"`

	ToolsSource  string `json:"tools_source,omitempty"`
	ToolsCopy    string `json:"tools_copy,omitempty"`
	ToolsVersion string `json:"tools_version,omitempty"`

	// CreatedAt is set on the first write and never changed afterwards.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on every write.
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is one row of a workspace listing.
type Summary struct {
	Name      string                    `json:"name"`
	Status    constants.WorkspaceStatus `json:"status"`
	Workflow  string                    `json:"workflow,omitempty"`
	UpdatedAt *time.Time                `json:"updated_at,omitempty"`
}
