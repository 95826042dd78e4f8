package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/agentspace/internal/config"
	"github.com/mrz1836/agentspace/internal/errors"
	"github.com/mrz1836/agentspace/internal/tui"
)

func newDoctorCmd(global *GlobalFlags, detector func(direnvRequired bool) config.ToolDetector) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that jj and direnv are installed",
		Long: `Report the installed versions of the external tools agentspace drives.
direnv is only required when direnv activation is enabled in the configuration.

Examples:
  agentspace doctor
  agentspace doctor --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			repoRoot, _ := detectRepoRoot(ctx, global)
			cfg, err := config.LoadWithOverrides(ctx, repoRoot, &config.Config{CacheRoot: global.CacheRoot})
			if err != nil {
				return err
			}

			result, err := detector(cfg.Direnv.Enabled).Detect(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if global.Output == OutputJSON {
				if err := tui.NewJSONOutput(w).JSON(result); err != nil {
					return err
				}
			} else {
				writeToolTable(w, result.Tools)
			}

			if missing := result.MissingRequiredTools(); len(missing) > 0 {
				if global.Output != OutputJSON {
					_, _ = fmt.Fprint(cmd.ErrOrStderr(), "\n"+config.FormatMissingToolsError(missing))
				}
				return fmt.Errorf("%d required tool(s) missing or outdated: %w", len(missing), errors.ErrEnvironment)
			}
			return nil
		},
	}
}

// writeToolTable prints one line per tool.
func writeToolTable(w io.Writer, tools []config.Tool) {
	tui.CheckNoColor()
	styles := tui.NewOutputStyles()

	nameWidth := runewidth.StringWidth("TOOL")
	for _, tool := range tools {
		nameWidth = max(nameWidth, runewidth.StringWidth(tool.Name))
	}

	titleCaser := cases.Title(language.English)
	header := lipgloss.NewStyle().Bold(true)
	_, _ = fmt.Fprintln(w, header.Render(runewidth.FillRight("TOOL", nameWidth)+"  STATUS     VERSION"))
	for _, tool := range tools {
		style := styles.Success
		if tool.Status != config.ToolStatusInstalled {
			style = styles.Dim
			if tool.Required {
				style = styles.Error
			}
		}

		version := tool.CurrentVersion
		if version == "" {
			version = "-"
		}
		_, _ = fmt.Fprintf(w, "%s  %s %s\n",
			runewidth.FillRight(tool.Name, nameWidth),
			style.Render(runewidth.FillRight(titleCaser.String(tool.Status.String()), 10)),
			version,
		)
	}
}
