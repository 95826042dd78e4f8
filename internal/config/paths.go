package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/agentspace/internal/constants"
	"github.com/mrz1836/agentspace/internal/errors"
)

// GlobalConfigDir returns the path to the global agentspace directory:
// $AGENTSPACE_HOME when set, otherwise ~/.agentspace.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.AppHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the project configuration file for repoRoot.
func ProjectConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, constants.ProjectConfigDir, constants.GlobalConfigName)
}

// LogFilePath returns the rotating CLI log file location.
func LogFilePath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir, constants.CLILogFileName), nil
}
