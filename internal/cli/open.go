package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gwt/internal/editor"
	"github.com/shinji-kodama/gwt/internal/model"
	"github.com/shinji-kodama/gwt/internal/prompt"
	"github.com/shinji-kodama/gwt/internal/worktree"
)

// NewOpenCommand creates the "open" cobra command.
func NewOpenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [target]",
		Short: "Open a worktree in the configured editor",
		Long: `Open a worktree in the configured editor.

The target is a worktree path or branch name. Without one, the worktree is
picked with a fuzzy finder. When no editor is configured the command prints
a cd line instead.

Examples:
  gwt open feature/login
  gwt open`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return runOpen(target)
		},
	}

	return cmd
}

// runOpen is the main logic function for the open command.
func runOpen(target string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	worktrees, err := s.git.List(s.repo.Dir)
	if err != nil {
		return err
	}

	var wt model.Worktree
	if target != "" {
		wt, err = worktree.Resolve(worktrees, target, s.dir)
		if err != nil {
			return err
		}
	} else {
		wt, err = pickWorktree(s, worktrees)
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(wt.Path); err != nil {
		return model.WorktreeNotFound(wt.Path)
	}

	cfg, err := loadOrSetupConfig(s)
	if err != nil {
		return err
	}

	if cfg == nil || cfg.Editor.Type != model.EditorCustom {
		printOpenResult(wt, "")
		return nil
	}

	VerboseLog("Launching %q for %s", cfg.Editor.Command, wt.Path)
	if err := editor.Launch(cfg.Editor, wt.Path); err != nil {
		return err
	}
	printOpenResult(wt, cfg.Editor.Command)
	return nil
}

// pickWorktree asks the user to choose one of worktrees.
func pickWorktree(s *session, worktrees []model.Worktree) (model.Worktree, error) {
	if len(worktrees) == 0 {
		return model.Worktree{}, model.NewCLIError(model.ExitGeneralError, "No worktrees found.")
	}

	options := make([]prompt.Option, 0, len(worktrees))
	byPath := make(map[string]model.Worktree, len(worktrees))
	for _, wt := range worktrees {
		options = append(options, prompt.Option{Label: wt.Branch + "  " + wt.Path, Value: wt.Path})
		byPath[wt.Path] = wt
	}

	path, err := prompt.SelectFuzzy(s.prompter, "Select a worktree", options)
	if err != nil {
		return model.Worktree{}, requireFlags(err, "pass the worktree path or branch as an argument")
	}
	return byPath[path], nil
}

// printOpenResult reports where the worktree was opened. An empty command
// means no editor was launched.
func printOpenResult(wt model.Worktree, command string) {
	if IsJSONOutput() {
		type resultJSON struct {
			Path   string `json:"path"`
			Branch string `json:"branch"`
			Editor string `json:"editor,omitempty"`
		}
		printJSON(resultJSON{Path: wt.Path, Branch: wt.Branch, Editor: command})
		return
	}

	if command == "" {
		fmt.Fprintf(outWriter, "cd %s\n", wt.Path)
		return
	}
	fmt.Fprintln(outWriter, successStyle.Render(fmt.Sprintf("Opened %s in %s", wt.Path, command)))
}
