// Package main is the entry point for the gwt CLI.
//
// gwt creates, lists, opens and deletes Git worktrees. All functionality
// lives in the internal/cli package, which defines the cobra commands.
//
// Build-time variables (version, commit, date) are injected via ldflags
// during the release process. During development, they default to "dev",
// "none", and "unknown" respectively.
package main

import (
	"os"

	"github.com/shinji-kodama/gwt/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	os.Exit(cli.Run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
