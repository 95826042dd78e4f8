package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/agentspace/internal/tui"
)

func newCleanCmd(global *GlobalFlags, open sessionOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "clean <id>",
		Short: "Forget a workspace and delete its directory",
		Long: `Unregister <id> from jj, then delete its metadata and directory.
Cleaning a workspace that does not exist succeeds.

Examples:
  agentspace clean demo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx, global)
			if err != nil {
				return err
			}

			if err := s.Manager.Clean(ctx, args[0]); err != nil {
				return err
			}

			out := tui.NewOutput(cmd.OutOrStdout(), global.Output)
			if global.Output == OutputJSON {
				return out.JSON(map[string]string{"workspace_id": args[0], "status": "removed"})
			}
			out.Success("Removed workspace " + args[0])
			return nil
		},
	}
}
