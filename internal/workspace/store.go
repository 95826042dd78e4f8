// Package workspace implements the workspace lifecycle for agentspace:
// identity, metadata persistence, backend registration, and the Manager
// that ties them to tool sync and command execution.
package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/agentspace/internal/clock"
	"github.com/mrz1836/agentspace/internal/constants"
	"github.com/mrz1836/agentspace/internal/ctxutil"
	"github.com/mrz1836/agentspace/internal/domain"
	"github.com/mrz1836/agentspace/internal/flock"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// UpdateContext carries the values merged into a metadata record by Update.
// Empty optional fields (Workflow, BaseChange, ToolsSource, ToolsCopy,
// ToolsVersion) clear the stored value.
type UpdateContext struct {
	WorkspaceID   string
	RepoRoot      string
	WorkspacePath string

	Workflow   string
	BaseChange string

	// Command replaces the stored argv when non-nil.
	Command []string

	DirenvAllowed bool

	ToolsSource  string
	ToolsCopy    string
	ToolsVersion string
}

// MetadataStore reads and writes workspace metadata files.
type MetadataStore struct {
	clock       clock.Clock
	lockTimeout time.Duration
}

// NewMetadataStore creates a store. A nil clock uses the real clock and a
// non-positive timeout uses the default lock timeout.
func NewMetadataStore(clk clock.Clock, lockTimeout time.Duration) *MetadataStore {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if lockTimeout <= 0 {
		lockTimeout = constants.DefaultLockTimeout
	}
	return &MetadataStore{clock: clk, lockTimeout: lockTimeout}
}

// Load returns the record at path. A missing or corrupt file yields an
// empty record; Load never fails.
func (s *MetadataStore) Load(path string) *domain.Metadata {
	md, err := s.read(path)
	if err != nil {
		return &domain.Metadata{}
	}
	return md
}

// read parses the record at path.
func (s *MetadataStore) read(path string) (*domain.Metadata, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is derived from a sanitized workspace id
	if err != nil {
		return nil, err
	}
	var md domain.Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("corrupted metadata %s: %w", path, err)
	}
	return &md, nil
}

// Update merges uc into the record at path, sets status and updated_at,
// and writes the result atomically while holding the workspace lock.
// created_at is set on the first write only.
func (s *MetadataStore) Update(ctx context.Context, path string, status constants.WorkspaceStatus, uc UpdateContext) (*domain.Metadata, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	lock, err := flock.Acquire(ctx, path+constants.LockSuffix, s.lockTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to lock metadata: %w", err)
	}
	defer func() { _ = lock.Release() }()

	md := s.Load(path)
	merge(md, status, uc)

	now := s.clock.Now()
	if md.CreatedAt.IsZero() {
		md.CreatedAt = now
	}
	md.UpdatedAt = now

	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create metadata directory: %w", err)
	}
	if err := atomicWrite(path, append(data, '\n'), filePerm); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("workspace_id", md.WorkspaceID).
		Str("status", md.Status.String()).
		Msg("metadata updated")

	return md, nil
}

// merge applies uc and status onto md.
func merge(md *domain.Metadata, status constants.WorkspaceStatus, uc UpdateContext) {
	md.Status = status

	if uc.WorkspaceID != "" {
		md.WorkspaceID = uc.WorkspaceID
	}
	if uc.RepoRoot != "" {
		md.RepoRoot = uc.RepoRoot
	}
	if uc.WorkspacePath != "" {
		md.WorkspacePath = uc.WorkspacePath
	}
	if uc.Command != nil {
		md.Command = append([]string(nil), uc.Command...)
	}
	if md.Command == nil {
		md.Command = []string{}
	}
	md.DirenvAllowed = uc.DirenvAllowed

	// Omission clears.
	md.Workflow = uc.Workflow
	md.BaseChange = uc.BaseChange
	md.ToolsSource = uc.ToolsSource
	md.ToolsCopy = uc.ToolsCopy
	md.ToolsVersion = uc.ToolsVersion
}

// ListAll summarizes every immediate subdirectory of root, sorted by name.
// Directories with missing or unreadable metadata report status "unknown".
// A missing root yields an empty list.
func (s *MetadataStore) ListAll(ctx context.Context, root string) ([]domain.Summary, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Summary{}, nil
		}
		return nil, fmt.Errorf("failed to list workspaces in %s: %w", root, err)
	}

	// os.ReadDir returns entries sorted by name.
	summaries := make([]domain.Summary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		row := domain.Summary{Name: entry.Name(), Status: constants.WorkspaceStatusUnknown}
		md, readErr := s.read(MetadataPath(filepath.Join(root, entry.Name())))
		if readErr != nil || md.Status == "" {
			if readErr != nil && !os.IsNotExist(readErr) {
				zerolog.Ctx(ctx).Debug().Err(readErr).Str("workspace_id", entry.Name()).Msg("unreadable metadata")
			}
			summaries = append(summaries, row)
			continue
		}

		row.Status = md.Status
		row.Workflow = md.Workflow
		if !md.UpdatedAt.IsZero() {
			updated := md.UpdatedAt
			row.UpdatedAt = &updated
		}
		summaries = append(summaries, row)
	}

	return summaries, nil
}

// Delete removes the metadata file and its lock file. Absence is not an error.
func (s *MetadataStore) Delete(path string) error {
	for _, p := range []string{path, path + constants.LockSuffix} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// atomicWrite writes data to a file atomically using write-then-rename.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	// Persist before rename
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
