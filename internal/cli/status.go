package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/agentspace/internal/domain"
	"github.com/mrz1836/agentspace/internal/tui"
)

func newStatusCmd(global *GlobalFlags, open sessionOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "status [id]",
		Short: "Show workspace metadata",
		Long: `Without an id, list every workspace of the repository with its status,
workflow and last update. Workspaces with missing or unreadable metadata are
listed as "unknown".

With an id, print that workspace's metadata record as JSON.

Examples:
  agentspace status
  agentspace status --output json
  agentspace status demo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx, global)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(args) == 1 {
				md, err := s.Manager.Status(ctx, args[0])
				if err != nil {
					return err
				}
				return tui.NewJSONOutput(w).JSON(md)
			}

			rows, err := s.Manager.List(ctx)
			if err != nil {
				return err
			}
			return writeSummaries(w, global.Output, rows)
		},
	}
}

// writeSummaries prints the workspace listing as a table or JSON array.
func writeSummaries(w io.Writer, format string, rows []domain.Summary) error {
	if format == OutputJSON {
		return tui.NewJSONOutput(w).JSON(rows)
	}

	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "No workspaces. Run 'agentspace run <id> -- <command>' to create one.")
		return nil
	}

	tui.CheckNoColor()
	return tui.NewWorkspaceTable(rows).Render(w)
}
