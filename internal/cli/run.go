package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/agentspace/internal/errors"
	"github.com/mrz1836/agentspace/internal/workspace"
)

// runFlags holds flags for the run command.
type runFlags struct {
	workflow   string
	baseChange string
	cleanup    bool
	noDirenv   bool
}

func newRunCmd(global *GlobalFlags, open sessionOpener) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <id> [flags] -- <command> [args...]",
		Short: "Run a command inside a workspace",
		Long: `Create the workspace <id> if needed, refresh its tool bundle when the
source changed, and run the command after '--' inside it.

The command inherits the terminal and these variables:
  AGENTSPACE_WORKSPACE_ID, AGENTSPACE_WORKSPACE_PATH, AGENTSPACE_METADATA,
  AGENTSPACE_REPO_ROOT, AGENTSPACE_TOOLS_DIR, AGENTSPACE_TOOLS_VERSION,
  AGENTSPACE_TOOLS_SOURCE, AGENTSPACE_RUN_ID

agentspace exits with the command's own exit code.

Examples:
  agentspace run demo -- make test
  agentspace run fix-123 --workflow triage --base-change main -- ./scripts/agent/run.sh
  agentspace run scratch --cleanup -- go test ./...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := cmd.ArgsLenAtDash()
			if dash < 0 {
				return fmt.Errorf("no command given after '--': %w", errors.ErrValidation)
			}
			if dash != 1 {
				return fmt.Errorf("expected exactly one workspace id before '--', got %d: %w", dash, errors.ErrValidation)
			}

			ctx := cmd.Context()
			s, err := open(ctx, global)
			if err != nil {
				return err
			}

			res, err := s.Manager.Run(ctx, workspace.RunOptions{
				ID:         args[0],
				Command:    args[dash:],
				Workflow:   flags.workflow,
				BaseChange: flags.baseChange,
				Cleanup:    flags.cleanup,
				Direnv:     s.Config.Direnv.Enabled && !flags.noDirenv,
				Stdio: workspace.Stdio{
					Stdin:  cmd.InOrStdin(),
					Stdout: cmd.OutOrStdout(),
					Stderr: cmd.ErrOrStderr(),
				},
			})

			logger := GetLogger()
			logger.Debug().
				Str("workspace_id", args[0]).
				Str("run_id", res.RunID).
				Int("exit_code", res.ExitCode).
				Msg("run finished")

			return err
		},
	}

	cmd.Flags().StringVar(&flags.workflow, "workflow", "", "label recorded with the run")
	cmd.Flags().StringVar(&flags.baseChange, "base-change", "", "jj revision to check out when the workspace is created")
	cmd.Flags().BoolVar(&flags.cleanup, "cleanup", false, "forget and delete the workspace if the command succeeds")
	cmd.Flags().BoolVar(&flags.noDirenv, "no-direnv", false, "do not run the command through direnv")

	return cmd
}
