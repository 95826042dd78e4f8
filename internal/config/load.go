package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/agentspace/internal/constants"
	"github.com/mrz1836/agentspace/internal/errors"
)

// newViperInstance creates a new Viper instance with the standard agentspace setup:
// AGENTSPACE_ environment prefix, "." to "_" key replacement, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config, normalizes paths and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration for the repository at repoRoot from all available
// sources with proper precedence. Missing config files are not an error.
// For CLI flag overrides, use LoadWithOverrides instead.
func Load(ctx context.Context, repoRoot string) (*Config, error) {
	v := newViperInstance()

	// Global config first (lower precedence)
	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	// Project config merges over global
	if repoRoot != "" {
		if err := mergeConfigFile(v, ProjectConfigPath(repoRoot), "failed to read project config file"); err != nil {
			return nil, err
		}
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("cache_root", cfg.CacheRoot).
		Strs("tools.manifest", cfg.Tools.Manifest).
		Bool("direnv.enabled", cfg.Direnv.Enabled).
		Dur("lock_timeout", cfg.LockTimeout).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig attempts to load ~/.agentspace/config.yaml.
// Returns nil if the file doesn't exist or the home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil {
		return nil //nolint:nilerr // no home directory means no global config
	}
	return mergeConfigFile(v, globalConfigPath, "failed to read global config file")
}

// mergeConfigFile merges the YAML file at path into v if it exists.
func mergeConfigFile(v *viper.Viper, path, msg string) error {
	if !FileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, msg)
	}
	return nil
}

// FileExists returns true if the file at path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
//
// Direnv.Enabled cannot be overridden to false here because a zero bool is
// indistinguishable from "not set"; the CLI handles --no-direnv itself.
func LoadWithOverrides(ctx context.Context, repoRoot string, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx, repoRoot)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
		normalize(cfg)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("cache_root", def.CacheRoot)
	v.SetDefault("tools.source", def.Tools.Source)
	v.SetDefault("tools.manifest", def.Tools.Manifest)
	v.SetDefault("direnv.enabled", def.Direnv.Enabled)
	v.SetDefault("shell", def.Shell)
	v.SetDefault("lock_timeout", def.LockTimeout.String())
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	if overrides.CacheRoot != "" {
		cfg.CacheRoot = overrides.CacheRoot
	}
	if overrides.Tools.Source != "" {
		cfg.Tools.Source = overrides.Tools.Source
	}
	if len(overrides.Tools.Manifest) > 0 {
		cfg.Tools.Manifest = overrides.Tools.Manifest
	}
	if overrides.Shell != "" {
		cfg.Shell = overrides.Shell
	}
	if overrides.LockTimeout != 0 {
		cfg.LockTimeout = overrides.LockTimeout
	}
}

// normalize expands a leading "~" in path settings, makes the cache root
// absolute and trims manifest entries. A relative tools.source stays relative
// to the repository root.
func normalize(cfg *Config) {
	cfg.CacheRoot = absPath(expandHome(cfg.CacheRoot))
	cfg.Tools.Source = expandHome(cfg.Tools.Source)

	manifest := make([]string, 0, len(cfg.Tools.Manifest))
	for _, entry := range cfg.Tools.Manifest {
		if entry = strings.TrimSpace(entry); entry != "" {
			manifest = append(manifest, entry)
		}
	}
	cfg.Tools.Manifest = manifest
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// absPath resolves path against the working directory. Empty paths and
// paths that cannot be resolved are returned unchanged.
func absPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Durations arrive as strings ("5s") and a manifest from the environment
// arrives as a comma-separated string.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
