package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mrz1836/agentspace/internal/config"
	"github.com/mrz1836/agentspace/internal/envhook"
	"github.com/mrz1836/agentspace/internal/executor"
	"github.com/mrz1836/agentspace/internal/vcs"
	"github.com/mrz1836/agentspace/internal/workspace"
)

// session is everything a workspace command operates on.
type session struct {
	Manager  *workspace.Manager
	Config   *config.Config
	RepoRoot string
}

// sessionOpener resolves the repository and builds a session.
type sessionOpener func(ctx context.Context, flags *GlobalFlags) (*session, error)

// openSession detects the jj repository containing flags.Repo (or the
// working directory), loads its configuration, and wires the manager to jj
// and direnv.
func openSession(ctx context.Context, flags *GlobalFlags) (*session, error) {
	repoRoot, err := detectRepoRoot(ctx, flags)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithOverrides(ctx, repoRoot, &config.Config{CacheRoot: flags.CacheRoot})
	if err != nil {
		return nil, err
	}

	runner := executor.ProcessRunner{}
	manager := workspace.NewManager(workspace.Options{
		Config:   cfg,
		RepoRoot: repoRoot,
		Backend:  vcs.NewJJ(repoRoot, vcs.DefaultBinary),
		Hook:     envhook.NewDirenv(runner, nil),
		Runner:   runner,
	})

	return &session{Manager: manager, Config: cfg, RepoRoot: repoRoot}, nil
}

// detectRepoRoot returns the root of the jj repository containing the
// directory selected by flags.
func detectRepoRoot(ctx context.Context, flags *GlobalFlags) (string, error) {
	dir := flags.Repo
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	return vcs.DetectRoot(ctx, vcs.DefaultBinary, dir)
}
