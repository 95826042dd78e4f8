// Package main provides the entry point for the agentspace CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/agentspace/internal/cli"
)

// Set via -ldflags at build time.
//
//nolint:gochecknoglobals // build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(cli.Execute(context.Background(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}))
}
