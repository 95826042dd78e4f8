// Package cli provides the command-line interface for agentspace.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/agentspace/internal/config"
	"github.com/mrz1836/agentspace/internal/errors"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// It is set during PersistentPreRunE and read through GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// It MUST only be called after the root command's PersistentPreRunE has
// executed; before that it returns a zero-value logger that discards output.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// rootOption customizes the root command.
type rootOption func(*rootConfig)

type rootConfig struct {
	open     sessionOpener
	logger   func(flags *GlobalFlags) zerolog.Logger
	detector func(direnvRequired bool) config.ToolDetector
}

// withSessionOpener replaces how commands resolve the repository and build
// the workspace manager.
func withSessionOpener(open sessionOpener) rootOption {
	return func(c *rootConfig) { c.open = open }
}

// withLogger replaces logger initialization.
func withLogger(fn func(flags *GlobalFlags) zerolog.Logger) rootOption {
	return func(c *rootConfig) { c.logger = fn }
}

// withToolDetector replaces the detector used by doctor.
func withToolDetector(fn func(direnvRequired bool) config.ToolDetector) rootOption {
	return func(c *rootConfig) { c.detector = fn }
}

// newRootCmd creates the root command for the agentspace CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo, opts ...rootOption) *cobra.Command {
	rc := &rootConfig{
		open: openSession,
		logger: func(flags *GlobalFlags) zerolog.Logger {
			return InitLogger(flags.Verbose, flags.Quiet)
		},
		detector: func(direnvRequired bool) config.ToolDetector {
			return config.NewToolDetector(direnvRequired)
		},
	}
	for _, opt := range opts {
		opt(rc)
	}

	v := viper.New()

	cmd := &cobra.Command{
		Use:   "agentspace",
		Short: "Isolated jj workspaces for automated agents",
		Long: `agentspace gives every agent its own jj workspace of the current repository,
keeps a shared tool bundle synchronized into it, and runs commands there while
recording their lifecycle.

Workspaces live under <cache_root>/<repo-slug>/<id> and are created on first use:

  agentspace run demo -- make test     # create/refresh demo and run a command
  agentspace status                    # list workspaces of this repository
  agentspace shell demo                # open an interactive shell in demo
  agentspace sync-tools demo           # force-refresh demo's tool bundle
  agentspace clean demo                # forget and delete demo`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			applyBoundFlags(v, cmd, flags)

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			logger := rc.logger(flags)
			globalLoggerMu.Lock()
			globalLogger = logger
			globalLoggerMu.Unlock()

			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	cmd.AddCommand(
		newRunCmd(flags, rc.open),
		newStatusCmd(flags, rc.open),
		newShellCmd(flags, rc.open),
		newCleanCmd(flags, rc.open),
		newSyncToolsCmd(flags, rc.open),
		newDoctorCmd(flags, rc.detector),
		newConfigCmd(flags),
	)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command and returns the process exit code.
// Errors are reported on stderr unless they only carry a wrapped command's
// exit status or were already written as JSON.
func Execute(ctx context.Context, info BuildInfo) int {
	defer CloseLogFile()

	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(ctx)
	reportError(os.Stderr, err)
	return ExitCodeForError(err)
}

// reportError prints err for the user.
func reportError(w io.Writer, err error) {
	if err == nil || stderrors.Is(err, errors.ErrJSONErrorOutput) {
		return
	}
	if _, ok := errors.ExitCode(err); ok {
		// The wrapped command has already spoken; spawn failures were
		// reported by the executor.
		return
	}

	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	if _, action := errors.Actionable(err); action != "" {
		_, _ = fmt.Fprintf(w, "  ▸ Try: %s\n", action)
	}
}
