package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gwt/internal/prompt"
	"github.com/shinji-kodama/gwt/internal/worktree"
)

// cleanFlags holds the flag values for the clean command.
type cleanFlags struct {
	// all removes every orphaned directory without asking.
	all bool
}

// NewCleanCommand creates the "clean" cobra command.
func NewCleanCommand() *cobra.Command {
	flags := &cleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove orphaned worktree directories",
		Long: `Remove worktree directories git no longer knows about.

A directory is orphaned when it sits next to the repository, its name starts
with the repository name, it still holds a .git file pointing at a gitdir,
and it is not an active worktree. Afterwards stale worktree metadata is
pruned.

Examples:
  gwt clean
  gwt clean --all`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "Remove all orphaned directories without asking")

	return cmd
}

// runClean is the main logic function for the clean command.
func runClean(flags *cleanFlags) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	// Every registered worktree counts as active, detached ones included.
	active, err := s.git.ActivePaths(s.repo.Dir)
	if err != nil {
		return err
	}

	orphaned, err := s.git.FindOrphaned(s.repo, active)
	if err != nil {
		return err
	}
	VerboseLog("Found %d orphaned directories", len(orphaned))

	var removed []string
	if len(orphaned) > 0 {
		selected := orphaned
		if !flags.all {
			options := make([]prompt.Option, 0, len(orphaned))
			for _, dir := range orphaned {
				options = append(options, prompt.Option{Label: filepath.Base(dir), Value: dir})
			}
			selected, err = s.prompter.MultiSelect("Select directories to remove", options)
			if err != nil {
				return requireFlags(err, "pass --all to remove every orphaned directory")
			}
		}

		for _, dir := range selected {
			// The worktree list may have changed while the user was choosing.
			current, err := s.git.ActivePaths(s.repo.Dir)
			if err != nil {
				return err
			}
			if worktree.IsActive(current, dir) {
				Warn("%s is an active worktree; not removing it", dir)
				continue
			}
			if err := os.RemoveAll(dir); err != nil {
				Warn("failed to remove %s: %v", dir, err)
				continue
			}
			removed = append(removed, dir)
		}
	}

	if err := s.git.Prune(s.repo.Dir); err != nil {
		VerboseLog("git worktree prune failed: %v", err)
	}

	printCleanResult(orphaned, removed)
	return nil
}

// printCleanResult outputs the clean command result in text or JSON format.
func printCleanResult(orphaned, removed []string) {
	if IsJSONOutput() {
		type resultJSON struct {
			Orphaned []string `json:"orphaned"`
			Removed  []string `json:"removed"`
		}
		printJSON(resultJSON{
			Orphaned: append([]string{}, orphaned...),
			Removed:  append([]string{}, removed...),
		})
		return
	}

	if len(orphaned) == 0 {
		fmt.Fprintln(outWriter, "No orphaned worktree directories found.")
		return
	}
	for _, dir := range removed {
		fmt.Fprintln(outWriter, successStyle.Render("Removed: "+dir))
	}
	if len(removed) == 0 {
		fmt.Fprintln(outWriter, "Nothing removed.")
	}
}
