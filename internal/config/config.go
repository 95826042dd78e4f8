// Package config provides configuration management for agentspace with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (AGENTSPACE_* prefix)
//  3. Project config (<repo>/.agentspace/config.yaml)
//  4. Global config (~/.agentspace/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import (
	"path/filepath"
	"time"
)

// Config is the root configuration structure for agentspace.
// A resolved Config is passed explicitly to every workspace operation.
type Config struct {
	// CacheRoot holds one directory per repository, each holding its workspaces.
	// Default: $HOME/.cache/agentspace
	CacheRoot string `yaml:"cache_root" mapstructure:"cache_root"`

	// Tools describes the tool bundle copied into every workspace.
	Tools ToolsConfig `yaml:"tools" mapstructure:"tools"`

	// Direnv controls the environment activation hook.
	Direnv DirenvConfig `yaml:"direnv" mapstructure:"direnv"`

	// Shell is the interactive shell started by `agentspace shell`.
	// Default: $SHELL, falling back to /bin/sh.
	Shell string `yaml:"shell" mapstructure:"shell"`

	// LockTimeout bounds how long a metadata update waits for the workspace lock.
	// Default: 5s
	LockTimeout time.Duration `yaml:"lock_timeout" mapstructure:"lock_timeout"`
}

// ToolsConfig describes where the tool bundle comes from and what it contains.
type ToolsConfig struct {
	// Source is the directory manifest entries are resolved against.
	// Empty means the repository root.
	Source string `yaml:"source" mapstructure:"source"`

	// Manifest lists the bundle's files and directories, relative to Source.
	Manifest []string `yaml:"manifest" mapstructure:"manifest"`
}

// DirenvConfig controls activation through direnv.
type DirenvConfig struct {
	// Enabled routes commands through `direnv exec` unless --no-direnv is given.
	// Default: true
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// ToolsSourceRoot returns the tool-source directory for repoRoot.
func (c *Config) ToolsSourceRoot(repoRoot string) string {
	if c.Tools.Source == "" {
		return repoRoot
	}
	if filepath.IsAbs(c.Tools.Source) {
		return filepath.Clean(c.Tools.Source)
	}
	return filepath.Join(repoRoot, c.Tools.Source)
}
