package cli

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/agentspace/internal/config"
	"github.com/mrz1836/agentspace/internal/envhook"
	"github.com/mrz1836/agentspace/internal/executor"
	"github.com/mrz1836/agentspace/internal/testutil"
	"github.com/mrz1836/agentspace/internal/vcs"
	"github.com/mrz1836/agentspace/internal/workspace"
)

// testEnv is a repository with a tool bundle, a fake jj backend and a fake
// direnv hook.
type testEnv struct {
	repoRoot string
	cfg      *config.Config
	backend  *vcs.Fake
	hook     *envhook.Fake
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repoRoot := t.TempDir()
	testutil.WriteManifest(t, repoRoot)

	cfg := config.DefaultConfig()
	cfg.CacheRoot = t.TempDir()
	cfg.Shell = "/bin/sh"
	cfg.LockTimeout = 2 * time.Second

	return &testEnv{
		repoRoot: repoRoot,
		cfg:      cfg,
		backend:  vcs.NewFake(),
		hook:     &envhook.Fake{Runner: executor.ProcessRunner{}},
	}
}

func (e *testEnv) opener() sessionOpener {
	return func(_ context.Context, _ *GlobalFlags) (*session, error) {
		m := workspace.NewManager(workspace.Options{
			Config:   e.cfg,
			RepoRoot: e.repoRoot,
			Backend:  e.backend,
			Hook:     e.hook,
			Environ:  func() []string { return []string{"PATH=" + os.Getenv("PATH")} },
		})
		return &session{Manager: m, Config: e.cfg, RepoRoot: e.repoRoot}, nil
	}
}

func (e *testEnv) layout(id string) workspace.Layout {
	return workspace.NewLayout(e.cfg.CacheRoot, e.repoRoot, id)
}

// newTestRootCmd builds a root command with a silent logger.
func newTestRootCmd(opts ...rootOption) *cobra.Command {
	opts = append([]rootOption{withLogger(func(*GlobalFlags) zerolog.Logger { return zerolog.Nop() })}, opts...)
	return newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"}, opts...)
}

// execute runs args and returns stdout, stderr and the error.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return execute(t, newTestRootCmd(withSessionOpener(e.opener())), args...)
}
