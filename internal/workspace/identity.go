package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/mrz1836/agentspace/internal/constants"
	aserrors "github.com/mrz1836/agentspace/internal/errors"
)

// validIDRegex matches valid workspace ids.
var validIDRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`) //nolint:gochecknoglobals // compiled once

// slugHashLen is the number of hex digits of the path digest kept in a RepoSlug.
const slugHashLen = 10

// Sanitize validates a caller-chosen workspace id. It fails with
// ErrValidation for an empty id, any character outside [A-Za-z0-9._-], or
// the path components "." and "..".
func Sanitize(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("workspace id cannot be empty: %w", aserrors.ErrValidation)
	}
	if !validIDRegex.MatchString(id) {
		return "", fmt.Errorf("workspace id %q may only contain letters, digits, '.', '_' and '-': %w", id, aserrors.ErrValidation)
	}
	if id == "." || id == ".." {
		return "", fmt.Errorf("workspace id %q is reserved: %w", id, aserrors.ErrValidation)
	}
	return id, nil
}

// RepoSlug derives the directory name grouping a repository's workspaces:
// the root's base name, a dash, and the first ten hex digits of the SHA-256
// of the cleaned root path.
//
//	RepoSlug("/src/app") // "app-" + first10hex(sha256("/src/app"))
func RepoSlug(repoRoot string) string {
	clean := filepath.Clean(repoRoot)
	sum := sha256.Sum256([]byte(clean))

	base := filepath.Base(clean)
	if base == string(filepath.Separator) || base == "." {
		base = "root"
	}
	return base + "-" + hex.EncodeToString(sum[:])[:slugHashLen]
}

// Layout is the on-disk location of one workspace and its bookkeeping files.
type Layout struct {
	ID       string
	RepoRoot string
	Slug     string

	// Path is <cache_root>/<slug>/<id>.
	Path string
}

// NewLayout computes the layout of id for the repository at repoRoot.
// id must already be sanitized.
func NewLayout(cacheRoot, repoRoot, id string) Layout {
	slug := RepoSlug(repoRoot)
	return Layout{
		ID:       id,
		RepoRoot: filepath.Clean(repoRoot),
		Slug:     slug,
		Path:     filepath.Join(cacheRoot, slug, id),
	}
}

// RepoDir is the directory holding every workspace of the repository.
func (l Layout) RepoDir() string { return filepath.Dir(l.Path) }

// RepoDir returns <cacheRoot>/<slug> for the repository at repoRoot.
func RepoDir(cacheRoot, repoRoot string) string {
	return filepath.Join(cacheRoot, RepoSlug(repoRoot))
}

// ToolsDir is the tool bundle copy inside the workspace.
func (l Layout) ToolsDir() string { return filepath.Join(l.Path, constants.ToolsDirName) }

// MetadataPath is the workspace metadata file.
func (l Layout) MetadataPath() string { return MetadataPath(l.Path) }

// MetadataPath returns the metadata file of the workspace at workspacePath.
func MetadataPath(workspacePath string) string {
	return filepath.Join(workspacePath, constants.ToolsDirName, constants.MetadataFileName)
}
