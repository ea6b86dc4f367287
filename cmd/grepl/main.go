// Package main is the entry point for the grepl CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/grepl/internal/cli"
	"github.com/yaklabco/grepl/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, cli.ErrNoMatch):
			// Clean run with no selected lines.
			return cli.ExitNoMatch
		case errors.Is(err, cli.ErrFileErrors):
			// Per-file messages already went to stderr.
			return cli.ExitError
		default:
			logger := logging.Default()
			logger.Error("command failed", logging.FieldError, err)
			return cli.ExitError
		}
	}

	return cli.ExitMatch
}
