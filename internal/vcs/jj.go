package vcs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// JJ implements Backend with the Jujutsu CLI.
type JJ struct {
	repoRoot string
	binary   string
}

// NewJJ returns a backend for the repository rooted at repoRoot.
// An empty binary selects DefaultBinary.
func NewJJ(repoRoot, binary string) *JJ {
	if binary == "" {
		binary = DefaultBinary
	}
	return &JJ{repoRoot: repoRoot, binary: binary}
}

// DetectRoot returns the root of the Jujutsu repository containing dir.
func DetectRoot(ctx context.Context, binary, dir string) (string, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	out, err := RunCommand(ctx, binary, dir, "root")
	if err != nil {
		return "", fmt.Errorf("failed to detect repository root: %w", err)
	}
	return filepath.Clean(out), nil
}

// ListWorkspaces runs `jj workspace list`.
func (j *JJ) ListWorkspaces(ctx context.Context) (map[string]struct{}, error) {
	out, err := RunCommand(ctx, j.binary, j.repoRoot, "workspace", "list", "--color=never")
	if err != nil {
		return nil, err
	}
	return parseWorkspaceList(out), nil
}

// AddWorkspace runs `jj workspace add --name <name> <path>`.
func (j *JJ) AddWorkspace(ctx context.Context, name, path string) error {
	zerolog.Ctx(ctx).Debug().Str("workspace_id", name).Str("path", path).Msg("adding jj workspace")
	_, err := RunCommand(ctx, j.binary, j.repoRoot, "workspace", "add", "--name", name, path)
	return err
}

// ForgetWorkspace runs `jj workspace forget <name>`.
func (j *JJ) ForgetWorkspace(ctx context.Context, name string) error {
	zerolog.Ctx(ctx).Debug().Str("workspace_id", name).Msg("forgetting jj workspace")
	_, err := RunCommand(ctx, j.binary, j.repoRoot, "workspace", "forget", name)
	return err
}

// CheckoutRevision runs `jj new <changeID>` inside the workspace.
func (j *JJ) CheckoutRevision(ctx context.Context, workspacePath, changeID string) error {
	zerolog.Ctx(ctx).Debug().Str("path", workspacePath).Str("base_change", changeID).Msg("checking out base change")
	_, err := RunCommand(ctx, j.binary, workspacePath, "new", changeID)
	return err
}

// parseWorkspaceList parses `jj workspace list` output, one workspace per line:
//
//	default: qpvuntsm 230dd059 (empty) (no description set)
//	feature-1: kkmpptxz 3d0dead0 add parser
func parseWorkspaceList(output string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, line := range strings.Split(output, "\n") {
		name, _, found := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			continue
		}
		names[name] = struct{}{}
	}
	return names
}
