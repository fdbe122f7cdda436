// Package main provides the entry point for the kodarch CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/kodarch/internal/cli"
)

// Set via ldflags.
//
//nolint:gochecknoglobals // build-time version stamps
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	err := cli.Execute(context.Background(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	os.Exit(cli.ExitCodeForError(err))
}
