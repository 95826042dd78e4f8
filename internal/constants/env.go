package constants

// EnvPrefix is the prefix for environment variables read through viper.
const EnvPrefix = "AGENTSPACE"

// Environment variables consumed by agentspace.
const (
	// EnvCacheRoot overrides the cache root holding every repository's workspaces.
	EnvCacheRoot = "AGENTSPACE_CACHE_ROOT"

	// EnvToolsSource overrides the directory the tool bundle is copied from.
	EnvToolsSource = "AGENTSPACE_TOOLS_SOURCE"

	// EnvShell selects the interactive shell for `agentspace shell`.
	EnvShell = "SHELL"

	// EnvHome overrides the ~/.agentspace directory holding global config and logs.
	EnvHome = "AGENTSPACE_HOME"

	// EnvNoColor disables styled output when present.
	EnvNoColor = "NO_COLOR"
)

// Environment variables injected into every wrapped command, alongside
// EnvToolsSource which carries the tool-source root.
const (
	EnvWorkspaceID   = "AGENTSPACE_WORKSPACE_ID"
	EnvWorkspacePath = "AGENTSPACE_WORKSPACE_PATH"
	EnvMetadataPath  = "AGENTSPACE_METADATA"
	EnvRepoRoot      = "AGENTSPACE_REPO_ROOT"
	EnvToolsDir      = "AGENTSPACE_TOOLS_DIR"
	EnvToolsVersion  = "AGENTSPACE_TOOLS_VERSION"
	EnvRunID         = "AGENTSPACE_RUN_ID"
)

// DefaultShell is used when SHELL is unset.
const DefaultShell = "/bin/sh"
