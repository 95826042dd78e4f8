package constants

// Log file names and rotation settings.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.agentspace/logs/agentspace.log
	CLILogFileName = "agentspace.log"

	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the number of days to retain rotated log files.
	LogMaxAgeDays = 14

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global configuration file,
	// located in the AppHome directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the repository-relative directory holding project config.
	ProjectConfigDir = ".agentspace"
)
