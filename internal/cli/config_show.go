package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/agentspace/internal/config"
	"github.com/mrz1836/agentspace/internal/tui"
)

// configView is the effective configuration as printed by `config show`.
type configView struct {
	CacheRoot   string   `yaml:"cache_root" json:"cache_root"`
	ToolsSource string   `yaml:"tools_source" json:"tools_source"`
	Manifest    []string `yaml:"manifest" json:"manifest"`
	Direnv      bool     `yaml:"direnv_enabled" json:"direnv_enabled"`
	Shell       string   `yaml:"shell" json:"shell"`
	LockTimeout string   `yaml:"lock_timeout" json:"lock_timeout"`

	Sources configSources `yaml:"sources" json:"sources"`
}

// configSources lists the files the configuration was read from.
type configSources struct {
	Global  string `yaml:"global,omitempty" json:"global,omitempty"`
	Project string `yaml:"project,omitempty" json:"project,omitempty"`
}

func newConfigCmd(global *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect agentspace configuration",
	}
	cmd.AddCommand(newConfigShowCmd(global))
	return cmd
}

func newConfigShowCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the configuration agentspace would use in this repository after
merging built-in defaults, ~/.agentspace/config.yaml, <repo>/.agentspace/config.yaml,
AGENTSPACE_* environment variables and flags.

Examples:
  agentspace config show
  agentspace config show --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Outside a repository only global configuration applies.
			repoRoot, _ := detectRepoRoot(ctx, global)

			cfg, err := config.LoadWithOverrides(ctx, repoRoot, &config.Config{CacheRoot: global.CacheRoot})
			if err != nil {
				return err
			}

			view := newConfigView(cfg, repoRoot)
			w := cmd.OutOrStdout()
			if global.Output == OutputJSON {
				return tui.NewJSONOutput(w).JSON(view)
			}
			return writeYAML(w, view)
		},
	}
}

func newConfigView(cfg *config.Config, repoRoot string) configView {
	view := configView{
		CacheRoot:   cfg.CacheRoot,
		ToolsSource: cfg.ToolsSourceRoot(repoRoot),
		Manifest:    cfg.Tools.Manifest,
		Direnv:      cfg.Direnv.Enabled,
		Shell:       cfg.Shell,
		LockTimeout: cfg.LockTimeout.String(),
	}

	if path, err := config.GlobalConfigPath(); err == nil && config.FileExists(path) {
		view.Sources.Global = path
	}
	if repoRoot != "" {
		if path := config.ProjectConfigPath(repoRoot); config.FileExists(path) {
			view.Sources.Project = path
		}
	}
	return view
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
