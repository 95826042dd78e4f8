package config

import (
	"path/filepath"
	"strings"

	"github.com/mrz1836/agentspace/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error wrapping ErrConfigInvalid for the first failure found.
//
// Validation rules:
//   - cache_root must be set
//   - tools.manifest must be non-empty
//   - manifest entries must be relative and stay inside the tool source
//   - lock_timeout must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if strings.TrimSpace(cfg.CacheRoot) == "" {
		return errors.Wrap(errors.ErrConfigInvalid,
			"cache_root must be set (no home directory found)")
	}

	if err := validateManifest(cfg.Tools.Manifest); err != nil {
		return err
	}

	if cfg.LockTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"lock_timeout must be positive, got %s", cfg.LockTimeout)
	}

	return nil
}

// validateManifest rejects empty manifests and entries escaping the source root.
func validateManifest(manifest []string) error {
	if len(manifest) == 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "tools.manifest must list at least one path")
	}

	for _, entry := range manifest {
		if filepath.IsAbs(entry) {
			return errors.Wrapf(errors.ErrConfigInvalid,
				"tools.manifest entry %q must be relative", entry)
		}
		clean := filepath.Clean(entry)
		if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return errors.Wrapf(errors.ErrConfigInvalid,
				"tools.manifest entry %q must stay inside the tool source", entry)
		}
	}

	return nil
}
