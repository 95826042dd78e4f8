package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/agentspace/internal/constants"
)

// DefaultManifest returns the tool bundle entries used when none are configured.
func DefaultManifest() []string {
	return []string{"AGENTS.md", ".agents", "scripts/agent"}
}

// DefaultCacheRoot returns $HOME/.cache/agentspace, or an empty string when
// the home directory cannot be determined.
func DefaultCacheRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, constants.CacheDirName)
}

// DefaultShell returns $SHELL, or /bin/sh when it is unset.
func DefaultShell() string {
	if shell := os.Getenv(constants.EnvShell); shell != "" {
		return shell
	}
	return constants.DefaultShell
}

// DefaultConfig returns a new Config with default values.
// These defaults are the base layer that config files, environment
// variables, and CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		CacheRoot: DefaultCacheRoot(),
		Tools: ToolsConfig{
			Manifest: DefaultManifest(),
		},
		Direnv: DirenvConfig{
			Enabled: true,
		},
		Shell:       DefaultShell(),
		LockTimeout: constants.DefaultLockTimeout,
	}
}
