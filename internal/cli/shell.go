package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/agentspace/internal/workspace"
)

func newShellCmd(global *GlobalFlags, open sessionOpener) *cobra.Command {
	var noDirenv bool

	cmd := &cobra.Command{
		Use:   "shell <id>",
		Short: "Open an interactive shell inside a workspace",
		Long: `Start the configured shell in an existing workspace. The first of
$AGENTSPACE_SHELL, the shell config key, $SHELL and /bin/sh that is set wins.
The shell gets the same variables 'run' injects. The workspace's
recorded status is not changed.

Examples:
  agentspace shell demo
  agentspace shell demo --no-direnv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx, global)
			if err != nil {
				return err
			}

			_, err = s.Manager.Shell(ctx, workspace.ShellOptions{
				ID:     args[0],
				Direnv: s.Config.Direnv.Enabled && !noDirenv,
				Stdio: workspace.Stdio{
					Stdin:  cmd.InOrStdin(),
					Stdout: cmd.OutOrStdout(),
					Stderr: cmd.ErrOrStderr(),
				},
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&noDirenv, "no-direnv", false, "do not load the direnv environment")
	return cmd
}
