package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	aserrors "github.com/mrz1836/agentspace/internal/errors"
	"github.com/mrz1836/agentspace/internal/vcs"
)

// EnsureResult reports what Ensure did.
type EnsureResult struct {
	// Created is true when the workspace was registered by this call.
	Created bool
}

// Registry binds workspace ids to paths through the version-control backend.
type Registry struct {
	backend vcs.Backend
	store   *MetadataStore
}

// NewRegistry creates a Registry over backend. store is used to read the
// path recorded for an already registered id.
func NewRegistry(backend vcs.Backend, store *MetadataStore) *Registry {
	return &Registry{backend: backend, store: store}
}

// Ensure makes id a registered workspace at desiredPath.
//
// An id that is already registered must still be bound to desiredPath:
// if its recorded path differs, or nothing exists at desiredPath, Ensure
// fails with ErrConflict before touching anything. An unregistered id is
// added at desiredPath and, when baseChange is set, moved onto that change.
// If that checkout fails the new workspace is forgotten and its directory
// removed, so a retry creates it again. Pre-existing workspaces are never
// checked out again.
func (r *Registry) Ensure(ctx context.Context, id, desiredPath, baseChange string) (EnsureResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("workspace_id", id).Logger()

	registered, err := r.IsRegistered(ctx, id)
	if err != nil {
		return EnsureResult{}, err
	}

	if registered {
		md := r.store.Load(MetadataPath(desiredPath))
		if md.WorkspacePath != "" && filepath.Clean(md.WorkspacePath) != filepath.Clean(desiredPath) {
			return EnsureResult{}, fmt.Errorf("workspace %q is bound to %s, not %s: %w",
				id, md.WorkspacePath, desiredPath, aserrors.ErrConflict)
		}
		if _, statErr := os.Stat(desiredPath); os.IsNotExist(statErr) {
			return EnsureResult{}, fmt.Errorf("workspace %q is registered but %s does not exist: %w",
				id, desiredPath, aserrors.ErrConflict)
		}
		if baseChange != "" {
			logger.Debug().Str("base_change", baseChange).Msg("workspace exists, skipping checkout")
		}
		return EnsureResult{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(desiredPath), dirPerm); err != nil {
		return EnsureResult{}, fmt.Errorf("failed to create %s: %w", filepath.Dir(desiredPath), err)
	}
	if err := r.backend.AddWorkspace(ctx, id, desiredPath); err != nil {
		return EnsureResult{}, fmt.Errorf("failed to add workspace %q: %w", id, err)
	}
	logger.Info().Str("path", desiredPath).Msg("workspace created")

	if baseChange != "" {
		if err := r.backend.CheckoutRevision(ctx, desiredPath, baseChange); err != nil {
			r.rollback(ctx, id, desiredPath)
			return EnsureResult{}, fmt.Errorf("failed to check out %s: %w", baseChange, err)
		}
	}

	return EnsureResult{Created: true}, nil
}

// rollback undoes a workspace added by Ensure.
func (r *Registry) rollback(ctx context.Context, id, path string) {
	logger := zerolog.Ctx(ctx).With().Str("workspace_id", id).Logger()
	if err := r.backend.ForgetWorkspace(ctx, id); err != nil {
		logger.Warn().Err(err).Msg("failed to forget workspace after failed checkout")
	}
	if err := os.RemoveAll(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to remove workspace after failed checkout")
	}
}

// IsRegistered reports whether the backend knows id.
func (r *Registry) IsRegistered(ctx context.Context, id string) (bool, error) {
	names, err := r.backend.ListWorkspaces(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list workspaces: %w", err)
	}
	_, ok := names[id]
	return ok, nil
}

// Forget unregisters id if it is registered. The repository's primary
// workspace is never forgotten.
func (r *Registry) Forget(ctx context.Context, id string) error {
	if id == vcs.RootWorkspace {
		return fmt.Errorf("workspace %q is the repository's primary working copy: %w", id, aserrors.ErrValidation)
	}
	registered, err := r.IsRegistered(ctx, id)
	if err != nil {
		return err
	}
	if !registered {
		return nil
	}
	if err := r.backend.ForgetWorkspace(ctx, id); err != nil {
		return fmt.Errorf("failed to forget workspace %q: %w", id, err)
	}
	return nil
}
