package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gwt/internal/model"
	"github.com/shinji-kodama/gwt/internal/prompt"
	"github.com/shinji-kodama/gwt/internal/worktree"
)

// deleteFlags holds the flag values for the delete command.
type deleteFlags struct {
	// force removes without confirmation, discarding local changes.
	force bool

	// yes skips the confirmation prompt. Dirty worktrees still ask
	// before being force-removed.
	yes bool
}

// NewDeleteCommand creates the "delete" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewDeleteCommand() *cobra.Command {
	flags := &deleteFlags{}

	cmd := &cobra.Command{
		Use:     "delete [target]",
		Aliases: []string{"remove", "rm"},
		Short:   "Delete worktrees",
		Long: `Delete a worktree by path or branch name, or pick several interactively.

The target is matched against worktree paths first (symlinks resolved) and
then against branch names. The main worktree can never be deleted.

When git refuses because the worktree has modified or untracked files, gwt
asks once more before retrying with --force.

Examples:
  gwt delete feature/login
  gwt delete ../app-feature-login --yes
  gwt rm hotfix --force
  gwt delete`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runDeleteTarget(args[0], flags)
			}
			return runDeleteSelect(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Delete without confirmation, discarding changes")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// deleteResult records which worktrees were removed and which were kept.
type deleteResult struct {
	deleted []string
	skipped []string
}

// runDeleteTarget deletes the single worktree named by target.
func runDeleteTarget(target string, flags *deleteFlags) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	worktrees, err := s.git.List(s.repo.Dir)
	if err != nil {
		return err
	}

	// Checked before resolving: a detached main worktree is not listed.
	if byPath := worktree.Lookups(target, s.dir)[0]; s.repo.IsMain(byPath.Value) {
		return model.MainWorktree(s.repo.Root)
	}

	wt, err := worktree.Resolve(worktrees, target, s.dir)
	if err != nil {
		return err
	}
	if s.repo.IsMain(wt.Path) {
		return model.MainWorktree(wt.Path)
	}
	VerboseLog("Resolved %q to %s (%s)", target, wt.Path, wt.Branch)

	result := &deleteResult{}

	if flags.force {
		if err := s.git.Remove(s.repo.Dir, wt.Path, true); err != nil {
			return err
		}
		result.deleted = append(result.deleted, wt.Path)
		printDeleteResult(result)
		return nil
	}

	if !flags.yes {
		ok, err := s.prompter.Confirm(fmt.Sprintf("Delete worktree %s (%s)?", wt.Path, wt.Branch), false)
		if err != nil {
			return requireFlags(err, "pass --yes to confirm or --force to discard changes")
		}
		if !ok {
			fmt.Fprintln(errWriter, "Deletion cancelled.")
			return nil
		}
	}

	if err := removeWithRetry(s, wt, result); err != nil {
		return err
	}
	printDeleteResult(result)
	return nil
}

// runDeleteSelect lets the user pick linked worktrees to delete.
func runDeleteSelect(flags *deleteFlags) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	worktrees, err := s.git.List(s.repo.Dir)
	if err != nil {
		return err
	}

	var linked []model.Worktree
	for _, wt := range worktrees {
		if !s.repo.IsMain(wt.Path) {
			linked = append(linked, wt)
		}
	}
	if len(linked) == 0 {
		if IsJSONOutput() {
			printDeleteResult(&deleteResult{})
		} else {
			fmt.Fprintln(outWriter, "No worktrees to delete. Create one with 'gwt create'.")
		}
		return nil
	}

	options := make([]prompt.Option, 0, len(linked))
	byPath := make(map[string]model.Worktree, len(linked))
	for _, wt := range linked {
		options = append(options, prompt.Option{
			Label: fmt.Sprintf("%s  %s", wt.Branch, mutedStyle.Render(wt.Path)),
			Value: wt.Path,
		})
		byPath[wt.Path] = wt
	}

	selected, err := s.prompter.MultiSelect("Select worktrees to delete", options)
	if err != nil {
		return requireFlags(err, "pass the worktree to delete as an argument")
	}
	if len(selected) == 0 {
		fmt.Fprintln(errWriter, "No worktrees selected.")
		return nil
	}

	if !flags.yes && !flags.force {
		ok, err := s.prompter.Confirm(fmt.Sprintf("Delete %d worktree(s)?", len(selected)), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(errWriter, "Deletion cancelled.")
			return nil
		}
	}

	result := &deleteResult{}
	for _, path := range selected {
		wt := byPath[path]
		if flags.force {
			if err := s.git.Remove(s.repo.Dir, wt.Path, true); err != nil {
				return err
			}
			result.deleted = append(result.deleted, wt.Path)
			continue
		}
		if err := removeWithRetry(s, wt, result); err != nil {
			return err
		}
	}

	printDeleteResult(result)
	return nil
}

// removeWithRetry removes wt and, when git refuses because of local
// changes, asks before retrying with --force. Declining records wt as
// skipped.
func removeWithRetry(s *session, wt model.Worktree, result *deleteResult) error {
	err := s.git.Remove(s.repo.Dir, wt.Path, false)
	if err == nil {
		result.deleted = append(result.deleted, wt.Path)
		return nil
	}
	if !worktree.IsUncommittedChanges(err) {
		return err
	}

	Warn("%s has modified or untracked files.", wt.Path)
	ok, perr := s.prompter.Confirm("Force delete? Local changes will be lost.", false)
	if perr != nil {
		if errors.Is(perr, model.ErrNonInteractive) {
			return model.NonInteractive("pass --force to delete worktrees with local changes")
		}
		return perr
	}
	if !ok {
		fmt.Fprintln(errWriter, "Skipped.")
		result.skipped = append(result.skipped, wt.Path)
		return nil
	}

	if err := s.git.Remove(s.repo.Dir, wt.Path, true); err != nil {
		return err
	}
	result.deleted = append(result.deleted, wt.Path)
	return nil
}

// printDeleteResult outputs the delete command result in text or JSON format.
func printDeleteResult(r *deleteResult) {
	if IsJSONOutput() {
		printDeleteResultJSON(r)
	} else {
		printDeleteResultText(r)
	}
}

// printDeleteResultJSON outputs the delete result as structured JSON.
func printDeleteResultJSON(r *deleteResult) {
	type resultJSON struct {
		Deleted []string `json:"deleted"`
		Skipped []string `json:"skipped"`
	}

	printJSON(resultJSON{
		Deleted: append([]string{}, r.deleted...),
		Skipped: append([]string{}, r.skipped...),
	})
}

// printDeleteResultText outputs the delete result as human-readable text.
func printDeleteResultText(r *deleteResult) {
	for _, path := range r.deleted {
		fmt.Fprintln(outWriter, successStyle.Render("Deleted worktree: "+path))
	}
}
