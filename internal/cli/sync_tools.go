package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/agentspace/internal/tui"
)

// shortDigestLen is how many digest characters text output shows.
const shortDigestLen = 12

func newSyncToolsCmd(global *GlobalFlags, open sessionOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-tools <id>",
		Short: "Force-refresh a workspace's tool bundle",
		Long: `Replace the tool bundle copy in <id> with a fresh copy of the manifest,
even if the source is unchanged, and record the new digest. The workspace's
status, workflow, command and base change are kept.

Examples:
  agentspace sync-tools demo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx, global)
			if err != nil {
				return err
			}

			md, err := s.Manager.SyncTools(ctx, args[0])
			if err != nil {
				return err
			}

			out := tui.NewOutput(cmd.OutOrStdout(), global.Output)
			if global.Output == OutputJSON {
				return out.JSON(md)
			}
			digest := md.ToolsVersion
			if len(digest) > shortDigestLen {
				digest = digest[:shortDigestLen]
			}
			out.Success(fmt.Sprintf("Tools refreshed in %s (%s)", args[0], digest))
			return nil
		},
	}
}
