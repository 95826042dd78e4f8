// This file implements the Manager, which runs the lifecycle flows behind
// each CLI subcommand.

package workspace

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/mrz1836/agentspace/internal/clock"
	"github.com/mrz1836/agentspace/internal/config"
	"github.com/mrz1836/agentspace/internal/constants"
	"github.com/mrz1836/agentspace/internal/domain"
	"github.com/mrz1836/agentspace/internal/envhook"
	aserrors "github.com/mrz1836/agentspace/internal/errors"
	"github.com/mrz1836/agentspace/internal/executor"
	"github.com/mrz1836/agentspace/internal/toolsync"
	"github.com/mrz1836/agentspace/internal/vcs"
)

// Options wires a Manager to its collaborators.
type Options struct {
	Config   *config.Config
	RepoRoot string
	Backend  vcs.Backend

	// Hook is the activation hook. It may be nil when activation is never requested.
	Hook envhook.Hook

	// Runner spawns commands directly. Nil uses executor.ProcessRunner.
	Runner executor.Runner

	// Fs is the filesystem tool bundles are hashed and copied on. Nil uses the OS.
	Fs afero.Fs

	Clock clock.Clock

	// Environ supplies the base environment of spawned commands. Nil uses os.Environ.
	Environ func() []string
}

// Manager orchestrates workspace lifecycle operations.
type Manager struct {
	cfg      *config.Config
	repoRoot string
	fs       afero.Fs
	store    *MetadataStore
	registry *Registry
	hook     envhook.Hook
	runner   executor.Runner
	executor *executor.Executor
	environ  func() []string
}

// NewManager creates a Manager from opts.
func NewManager(opts Options) *Manager {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	runner := opts.Runner
	if runner == nil {
		runner = executor.ProcessRunner{}
	}
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}

	var hookRunner executor.HookRunner
	if opts.Hook != nil {
		hookRunner = opts.Hook
	}

	store := NewMetadataStore(opts.Clock, opts.Config.LockTimeout)
	return &Manager{
		cfg:      opts.Config,
		repoRoot: opts.RepoRoot,
		fs:       fs,
		store:    store,
		registry: NewRegistry(opts.Backend, store),
		hook:     opts.Hook,
		runner:   runner,
		executor: executor.New(runner, hookRunner),
		environ:  environ,
	}
}

// Stdio is the terminal a command is attached to.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// RunOptions describes one `run` invocation.
type RunOptions struct {
	ID         string
	Command    []string
	Workflow   string
	BaseChange string
	Cleanup    bool
	Direnv     bool
	Stdio
}

// Run ensures the workspace, refreshes its tools, optionally authorizes the
// activation hook, and executes the command. The id, the command and every
// manifest entry are validated before anything is created.
//
// A non-zero exit of the command is returned as an ExitCodeError.
func (m *Manager) Run(ctx context.Context, opts RunOptions) (executor.Result, error) {
	id, err := Sanitize(opts.ID)
	if err != nil {
		return executor.Result{}, err
	}
	if len(opts.Command) == 0 {
		return executor.Result{}, fmt.Errorf("no command given after '--': %w", aserrors.ErrValidation)
	}
	if opts.Direnv && m.hook == nil {
		return executor.Result{}, fmt.Errorf("activation hook is not configured: %w", aserrors.ErrEnvironment)
	}

	layout := m.layout(id)
	sourceRoot := m.cfg.ToolsSourceRoot(m.repoRoot)
	if _, err := toolsync.ComputeHash(m.fs, sourceRoot, m.cfg.Tools.Manifest); err != nil {
		return executor.Result{}, err
	}

	logger := zerolog.Ctx(ctx).With().Str("workspace_id", id).Logger()
	ctx = logger.WithContext(ctx)

	ensured, err := m.registry.Ensure(ctx, id, layout.Path, opts.BaseChange)
	if err != nil {
		return executor.Result{}, err
	}

	synced, err := toolsync.Sync(m.fs, layout.Path, sourceRoot, m.cfg.Tools.Manifest, false)
	if err != nil {
		return executor.Result{}, fmt.Errorf("failed to sync tools: %w", err)
	}
	logger.Debug().Str("digest", synced.Digest).Bool("copied", synced.Copied).Msg("tools synchronized")

	if opts.Direnv {
		if err := m.hook.Allow(ctx, layout.Path); err != nil {
			return executor.Result{}, err
		}
	}

	// base_change describes how the workspace was created; a later run
	// neither checks out nor records a different one.
	baseChange := opts.BaseChange
	if !ensured.Created {
		baseChange = m.store.Load(layout.MetadataPath()).BaseChange
	}

	uc := UpdateContext{
		WorkspaceID:   id,
		RepoRoot:      layout.RepoRoot,
		WorkspacePath: layout.Path,
		Workflow:      opts.Workflow,
		BaseChange:    baseChange,
		Command:       opts.Command,
		DirenvAllowed: opts.Direnv,
		ToolsSource:   sourceRoot,
		ToolsCopy:     layout.ToolsDir(),
		ToolsVersion:  synced.Digest,
	}

	return m.executor.Execute(ctx, executor.Request{
		Argv:     opts.Command,
		Dir:      layout.Path,
		Env:      executor.MergeEnv(m.environ(), m.injectedEnv(layout, sourceRoot, synced.Digest)),
		Activate: opts.Direnv,
		Cleanup:  opts.Cleanup,
		Stdin:    opts.Stdin,
		Stdout:   opts.Stdout,
		Stderr:   opts.Stderr,
	}, &runTracker{manager: m, layout: layout, uc: uc})
}

// Status returns the metadata of id. A workspace without a metadata file is ErrNotFound.
func (m *Manager) Status(ctx context.Context, id string) (*domain.Metadata, error) {
	id, err := Sanitize(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := m.layout(id).MetadataPath()
	md, err := m.store.read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no metadata for workspace %q: %w", id, aserrors.ErrNotFound)
		}
		return nil, err
	}
	return md, nil
}

// List summarizes every workspace of the repository.
func (m *Manager) List(ctx context.Context) ([]domain.Summary, error) {
	return m.store.ListAll(ctx, RepoDir(m.cfg.CacheRoot, m.repoRoot))
}

// ShellOptions describes one `shell` invocation.
type ShellOptions struct {
	ID     string
	Direnv bool
	Stdio
}

// Shell starts the configured interactive shell inside a registered
// workspace and returns its exit code. A non-zero code is also returned as
// an ExitCodeError.
func (m *Manager) Shell(ctx context.Context, opts ShellOptions) (int, error) {
	id, err := Sanitize(opts.ID)
	if err != nil {
		return 0, err
	}
	layout, err := m.requireRegistered(ctx, id)
	if err != nil {
		return 0, err
	}
	if opts.Direnv && m.hook == nil {
		return 0, fmt.Errorf("activation hook is not configured: %w", aserrors.ErrEnvironment)
	}

	md := m.store.Load(layout.MetadataPath())
	sourceRoot := md.ToolsSource
	if sourceRoot == "" {
		sourceRoot = m.cfg.ToolsSourceRoot(m.repoRoot)
	}
	version := md.ToolsVersion
	if version == "" {
		version = toolsync.StoredDigest(m.fs, layout.Path)
	}

	spec := executor.Spec{
		Argv:   []string{m.cfg.Shell},
		Dir:    layout.Path,
		Env:    executor.MergeEnv(m.environ(), m.injectedEnv(layout, sourceRoot, version)),
		Stdin:  opts.Stdin,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	}

	var code int
	if opts.Direnv {
		code, err = m.hook.Exec(ctx, spec)
	} else {
		code, err = m.runner.Run(ctx, spec)
	}
	if err != nil {
		return code, fmt.Errorf("%w: %w", err, aserrors.NewExitCodeError(code))
	}
	if code != 0 {
		return code, aserrors.NewExitCodeError(code)
	}
	return 0, nil
}

// Clean forgets id and removes its directory and metadata. Cleaning a
// workspace that does not exist succeeds. The repository's primary
// workspace is refused before anything is touched.
func (m *Manager) Clean(ctx context.Context, id string) error {
	id, err := Sanitize(id)
	if err != nil {
		return err
	}
	return m.remove(ctx, m.layout(id))
}

// SyncTools force-refreshes the tool bundle of a registered workspace and
// records the new digest. Lifecycle fields recorded before the refresh are
// kept, with status defaulting to idle.
func (m *Manager) SyncTools(ctx context.Context, id string) (*domain.Metadata, error) {
	id, err := Sanitize(id)
	if err != nil {
		return nil, err
	}
	layout, err := m.requireRegistered(ctx, id)
	if err != nil {
		return nil, err
	}

	prior := m.store.Load(layout.MetadataPath())
	sourceRoot := m.cfg.ToolsSourceRoot(m.repoRoot)

	synced, err := toolsync.Sync(m.fs, layout.Path, sourceRoot, m.cfg.Tools.Manifest, true)
	if err != nil {
		return nil, fmt.Errorf("failed to sync tools: %w", err)
	}

	status := prior.Status
	if status == "" {
		status = constants.WorkspaceStatusIdle
	}

	md, err := m.store.Update(ctx, layout.MetadataPath(), status, UpdateContext{
		WorkspaceID:   id,
		RepoRoot:      layout.RepoRoot,
		WorkspacePath: layout.Path,
		Workflow:      prior.Workflow,
		BaseChange:    prior.BaseChange,
		Command:       prior.Command,
		DirenvAllowed: prior.DirenvAllowed,
		ToolsSource:   sourceRoot,
		ToolsCopy:     layout.ToolsDir(),
		ToolsVersion:  synced.Digest,
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("workspace_id", id).
		Str("digest", synced.Digest).
		Msg("tools refreshed")

	return md, nil
}

func (m *Manager) layout(id string) Layout {
	return NewLayout(m.cfg.CacheRoot, m.repoRoot, id)
}

// requireRegistered returns the layout of id, or ErrNotFound when the
// backend does not know id or its directory is gone.
func (m *Manager) requireRegistered(ctx context.Context, id string) (Layout, error) {
	registered, err := m.registry.IsRegistered(ctx, id)
	if err != nil {
		return Layout{}, err
	}
	if !registered {
		return Layout{}, fmt.Errorf("workspace %q is not registered: %w", id, aserrors.ErrNotFound)
	}

	layout := m.layout(id)
	if info, statErr := os.Stat(layout.Path); statErr != nil || !info.IsDir() {
		return Layout{}, fmt.Errorf("workspace %q has no directory at %s: %w", id, layout.Path, aserrors.ErrNotFound)
	}
	return layout, nil
}

// remove forgets the workspace, then deletes its metadata and directory.
func (m *Manager) remove(ctx context.Context, layout Layout) error {
	if err := m.registry.Forget(ctx, layout.ID); err != nil {
		return err
	}
	if err := m.store.Delete(layout.MetadataPath()); err != nil {
		return err
	}
	if err := removeDirectory(layout.Path); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("workspace_id", layout.ID).Str("path", layout.Path).Msg("workspace removed")
	return nil
}

// removeDirectory deletes a workspace directory. A missing path is not an error.
func removeDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", aserrors.ErrNotADirectory, path)
	}
	return os.RemoveAll(path)
}

// injectedEnv is the context every command in the workspace receives.
func (m *Manager) injectedEnv(layout Layout, sourceRoot, version string) map[string]string {
	return map[string]string{
		constants.EnvWorkspaceID:   layout.ID,
		constants.EnvWorkspacePath: layout.Path,
		constants.EnvMetadataPath:  layout.MetadataPath(),
		constants.EnvRepoRoot:      layout.RepoRoot,
		constants.EnvToolsDir:      layout.ToolsDir(),
		constants.EnvToolsVersion:  version,
		constants.EnvToolsSource:   sourceRoot,
	}
}

// runTracker records a run's lifecycle in the workspace metadata.
type runTracker struct {
	manager *Manager
	layout  Layout
	uc      UpdateContext
}

func (t *runTracker) Transition(ctx context.Context, status constants.WorkspaceStatus) error {
	_, err := t.manager.store.Update(ctx, t.layout.MetadataPath(), status, t.uc)
	return err
}

func (t *runTracker) Remove(ctx context.Context) error {
	return t.manager.remove(ctx, t.layout)
}

