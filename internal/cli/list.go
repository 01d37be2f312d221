package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gwt/internal/model"
	"github.com/shinji-kodama/gwt/internal/worktree"
)

// NewListCommand creates the "list" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List worktrees",
		Long: `List every worktree of the current repository with its branch and commit.

Worktrees with a detached HEAD are not shown.

Examples:
  gwt list
  gwt ls --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}

	return cmd
}

// runList is the main logic function for the list command.
func runList() error {
	s, err := openSession()
	if err != nil {
		return err
	}

	worktrees, err := s.git.List(s.repo.Dir)
	if err != nil {
		return err
	}
	VerboseLog("Found %d worktrees", len(worktrees))

	printListResult(worktrees, s.repo)
	return nil
}

// printListResult outputs the worktree list in text or JSON format,
// depending on the global --json flag.
func printListResult(worktrees []model.Worktree, repo *worktree.Repo) {
	if IsJSONOutput() {
		printListResultJSON(worktrees, repo)
	} else {
		printListResultText(worktrees, repo)
	}
}

// listWorktreeJSON is the JSON output structure for a single worktree.
type listWorktreeJSON struct {
	Path   string `json:"path"`
	Branch string `json:"branch"`
	Commit string `json:"commit"`
	IsMain bool   `json:"isMain"`
}

// printListResultJSON outputs the list under a top-level "worktrees" key.
func printListResultJSON(worktrees []model.Worktree, repo *worktree.Repo) {
	type resultJSON struct {
		Worktrees []listWorktreeJSON `json:"worktrees"`
	}

	result := resultJSON{
		// Empty slice so the output shows [] instead of null.
		Worktrees: make([]listWorktreeJSON, 0, len(worktrees)),
	}
	for _, wt := range worktrees {
		result.Worktrees = append(result.Worktrees, listWorktreeJSON{
			Path:   wt.Path,
			Branch: wt.Branch,
			Commit: wt.Commit,
			IsMain: repo.IsMain(wt.Path),
		})
	}

	printJSON(result)
}

// printListResultText renders the list as a table:
//
//	PATH                 BRANCH        COMMIT
//	/src/app             main          1a2b3c4
//	/src/app-feature-x   feature/x     5d6e7f8
func printListResultText(worktrees []model.Worktree, repo *worktree.Repo) {
	if len(worktrees) == 0 {
		fmt.Fprintln(outWriter, "No worktrees found.")
		return
	}

	rows := make([][]string, 0, len(worktrees))
	for _, wt := range worktrees {
		branch := wt.Branch
		if repo.IsMain(wt.Path) {
			branch += " " + mutedStyle.Render("(main)")
		}
		rows = append(rows, []string{wt.Path, branch, wt.ShortCommit()})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PATH", "BRANCH", "COMMIT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	fmt.Fprintln(outWriter, t.String())
}
