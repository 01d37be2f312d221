package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gwt/internal/config"
	"github.com/shinji-kodama/gwt/internal/editor"
	"github.com/shinji-kodama/gwt/internal/filecopy"
	"github.com/shinji-kodama/gwt/internal/model"
	"github.com/shinji-kodama/gwt/internal/prompt"
	"github.com/shinji-kodama/gwt/internal/worktree"
)

// createFlags holds the flag values for the create command.
type createFlags struct {
	// branch is an existing local or remote-tracking branch to check out.
	branch string

	// newBranch is the name of a branch to create.
	newBranch string

	// base is the start point for newBranch.
	base string

	// path overrides the default worktree location.
	path string

	// noEditor skips launching the configured editor.
	noEditor bool
}

// Values of the branch picker that are not branch names.
const (
	pickNewBranch = "new:"
	pickLocal     = "local:"
	pickRemote    = "remote:"
)

// NewCreateCommand creates the "create" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCreateCommand() *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add"},
		Short:   "Create a worktree",
		Long: `Create a new worktree next to the repository.

Without flags the branch is chosen interactively: pick an existing local or
remote branch, or create a new one from a base branch. Choosing a remote
branch such as origin/feature-x creates a local feature-x tracking it.

The worktree is placed at <parent>/<repo>-<branch> unless --path is given.
Files listed in filesToCopy are copied from the current worktree and the
configured editor is opened.

Examples:
  gwt create
  gwt create --branch feature/login
  gwt create --new-branch feature/api --base main
  gwt add --branch origin/fix-ci --path ../ci --no-editor`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.base != "" && flags.newBranch == "" {
				return model.NewCLIError(model.ExitGeneralError, "--base can only be used with --new-branch")
			}
			if flags.branch != "" && flags.newBranch != "" {
				return model.NewCLIError(model.ExitGeneralError, "--branch and --new-branch are mutually exclusive")
			}
			return runCreate(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.branch, "branch", "b", "", "Existing local or remote branch to check out")
	cmd.Flags().StringVarP(&flags.newBranch, "new-branch", "n", "", "Name of a new branch to create")
	cmd.Flags().StringVar(&flags.base, "base", "", "Start point for --new-branch")
	cmd.Flags().StringVarP(&flags.path, "path", "p", "", "Worktree directory (default: <parent>/<repo>-<branch>)")
	cmd.Flags().BoolVar(&flags.noEditor, "no-editor", false, "Do not open the editor")

	return cmd
}

// createResult collects what runCreate did for printing.
type createResult struct {
	path        string
	branch      string
	newBranch   bool
	base        string
	filesCopied int
	editor      string
}

// runCreate is the main logic function for the create command.
func runCreate(flags *createFlags) error {
	// Step 1: Resolve the repository.
	s, err := openSession()
	if err != nil {
		return err
	}

	// Step 2: Decide which branch the worktree checks out.
	interactive := flags.branch == "" && flags.newBranch == ""
	opts, err := resolveCreateBranch(s, flags)
	if err != nil {
		return err
	}
	VerboseLog("Branch: %s (new: %t, base: %q)", opts.Branch, opts.NewBranch, opts.Base)

	// Step 3: Determine the worktree path.
	// Default: sibling directory named <repo>-<sanitized branch>.
	worktreePath := flags.path
	if worktreePath == "" {
		worktreePath = defaultWorktreePath(s.repo, opts.Branch)
		if interactive {
			worktreePath, err = s.prompter.Input("Worktree path", worktreePath, nil)
			if err != nil {
				return err
			}
		}
	}
	if !filepath.IsAbs(worktreePath) {
		worktreePath = filepath.Join(s.dir, worktreePath)
	}
	worktreePath = filepath.Clean(worktreePath)
	VerboseLog("Worktree path: %s", worktreePath)

	if _, statErr := os.Lstat(worktreePath); statErr == nil {
		return model.WorktreeExists(worktreePath)
	}

	// Step 4: Create the Git worktree.
	opts.Path = worktreePath
	if err := s.git.Add(s.repo.Dir, opts); err != nil {
		return err
	}
	VerboseLog("Git worktree created successfully")

	result := &createResult{
		path:      worktreePath,
		branch:    opts.Branch,
		newBranch: opts.NewBranch,
		base:      opts.Base,
	}

	// Step 5: Load the config, offering the setup wizard on first use.
	// The worktree exists at this point, so config problems only warn.
	cfg, err := loadOrSetupConfig(s)
	if err != nil {
		Warn("%v", err)
	}

	// Step 6: Copy untracked files such as .env into the new worktree.
	if cfg != nil && len(cfg.FilesToCopy) > 0 {
		result.filesCopied = filecopy.Copy(s.repo.Dir, worktreePath, cfg.FilesToCopy, errWriter)
		VerboseLog("Copied %d of %d configured entries", result.filesCopied, len(cfg.FilesToCopy))
	}

	// Step 7: Open the editor.
	if !flags.noEditor && cfg != nil && cfg.Editor.Type == model.EditorCustom {
		if err := editor.Launch(cfg.Editor, worktreePath); err != nil {
			Warn("%v", err)
		} else {
			result.editor = cfg.Editor.Command
		}
	}

	printCreateResult(result)
	return nil
}

// resolveCreateBranch turns the flags, or the interactive picker when no
// branch flag is set, into git worktree add options without a path.
func resolveCreateBranch(s *session, flags *createFlags) (worktree.AddOptions, error) {
	branches := s.git.ListBranches(s.repo.Dir)

	switch {
	case flags.newBranch != "":
		if s.git.LocalBranchExists(s.repo.Dir, flags.newBranch) {
			return worktree.AddOptions{}, model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("Branch already exists: %s. Use --branch to check it out", flags.newBranch))
		}
		if flags.base != "" && !s.git.BranchExists(s.repo.Dir, flags.base) {
			return worktree.AddOptions{}, model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("Base not found: %s", flags.base))
		}
		return worktree.AddOptions{Branch: flags.newBranch, NewBranch: true, Base: flags.base}, nil

	case flags.branch != "":
		if contains(branches.Local, flags.branch) {
			return worktree.AddOptions{Branch: flags.branch}, nil
		}
		if contains(branches.Remote, flags.branch) {
			return fromRemote(s, flags.branch), nil
		}
		return worktree.AddOptions{}, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("Branch not found: %s", flags.branch))
	}

	return pickBranch(s, branches)
}

// pickBranch runs the interactive branch selection.
func pickBranch(s *session, branches model.BranchList) (worktree.AddOptions, error) {
	options := []prompt.Option{{Label: "+ Create new branch", Value: pickNewBranch}}
	for _, b := range branches.Local {
		options = append(options, prompt.Option{Label: b, Value: pickLocal + b})
	}
	for _, b := range branches.Remote {
		options = append(options, prompt.Option{Label: b, Value: pickRemote + b})
	}

	picked, err := prompt.SelectFuzzy(s.prompter, "Select a branch", options)
	if err != nil {
		return worktree.AddOptions{}, requireFlags(err, "pass --branch or --new-branch")
	}

	switch {
	case strings.HasPrefix(picked, pickLocal):
		return worktree.AddOptions{Branch: strings.TrimPrefix(picked, pickLocal)}, nil
	case strings.HasPrefix(picked, pickRemote):
		return fromRemote(s, strings.TrimPrefix(picked, pickRemote)), nil
	}

	name, err := s.prompter.Input("New branch name", "", func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return errors.New("branch name is required")
		}
		if s.git.LocalBranchExists(s.repo.Dir, v) {
			return fmt.Errorf("branch %s already exists", v)
		}
		return nil
	})
	if err != nil {
		return worktree.AddOptions{}, err
	}

	opts := worktree.AddOptions{Branch: strings.TrimSpace(name), NewBranch: true}

	bases := make([]prompt.Option, 0, len(branches.Local)+len(branches.Remote))
	for _, b := range append(append([]string{}, branches.Local...), branches.Remote...) {
		bases = append(bases, prompt.Option{Label: b, Value: b})
	}
	if len(bases) > 0 {
		opts.Base, err = prompt.SelectFuzzy(s.prompter, "Select a base branch", bases)
		if err != nil {
			return worktree.AddOptions{}, err
		}
	}
	return opts, nil
}

// fromRemote checks out remote (e.g. origin/feature-x) as a local branch
// named after it. An existing local branch of that name is reused.
func fromRemote(s *session, remote string) worktree.AddOptions {
	local := remote
	if _, rest, ok := strings.Cut(remote, "/"); ok && rest != "" {
		local = rest
	}
	if s.git.LocalBranchExists(s.repo.Dir, local) {
		VerboseLog("Local branch %s already exists; checking it out", local)
		return worktree.AddOptions{Branch: local}
	}
	return worktree.AddOptions{Branch: local, NewBranch: true, Base: remote}
}

// loadOrSetupConfig returns the repository config. When there is none and
// prompts are available the setup wizard creates it.
func loadOrSetupConfig(s *session) (*config.Config, error) {
	cfg, err := config.Load(s.git, s.dir)
	if err != nil || cfg != nil || !s.interactive() {
		return cfg, err
	}

	fmt.Fprintln(errWriter, "No gwt configuration found for this repository; starting setup.")
	cfg, err = runSetupWizard(s, nil)
	if err != nil {
		return nil, err
	}
	if err := config.Save(s.git, s.dir, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// defaultWorktreePath returns <parent of root>/<repo>-<sanitized branch>.
func defaultWorktreePath(repo *worktree.Repo, branch string) string {
	return filepath.Join(filepath.Dir(repo.Root), repo.Name()+"-"+sanitizeBranchName(branch))
}

// sanitizeBranchName converts a Git branch name into a directory suffix.
// Replaces "/" with "-" and strips characters outside [A-Za-z0-9_.-].
func sanitizeBranchName(branch string) string {
	name := strings.ReplaceAll(branch, "/", "-")

	var result strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.' {
			result.WriteRune(r)
		}
	}
	name = result.String()

	if name == "" {
		name = "worktree"
	}
	return name
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// printCreateResult outputs the create command results in text or JSON format.
func printCreateResult(r *createResult) {
	if IsJSONOutput() {
		printCreateResultJSON(r)
	} else {
		printCreateResultText(r)
	}
}

// printCreateResultJSON outputs the create result as structured JSON.
func printCreateResultJSON(r *createResult) {
	type resultJSON struct {
		Path        string `json:"path"`
		Branch      string `json:"branch"`
		NewBranch   bool   `json:"newBranch"`
		Base        string `json:"base,omitempty"`
		FilesCopied int    `json:"filesCopied"`
		Editor      string `json:"editor,omitempty"`
	}

	printJSON(resultJSON{
		Path:        r.path,
		Branch:      r.branch,
		NewBranch:   r.newBranch,
		Base:        r.base,
		FilesCopied: r.filesCopied,
		Editor:      r.editor,
	})
}

// printCreateResultText outputs the create result as human-readable text.
func printCreateResultText(r *createResult) {
	fmt.Fprintln(outWriter, successStyle.Render("Created worktree: "+r.path))
	if r.newBranch && r.base != "" {
		fmt.Fprintf(outWriter, "  Branch:  %s (new, from %s)\n", r.branch, r.base)
	} else if r.newBranch {
		fmt.Fprintf(outWriter, "  Branch:  %s (new)\n", r.branch)
	} else {
		fmt.Fprintf(outWriter, "  Branch:  %s\n", r.branch)
	}
	if r.filesCopied > 0 {
		fmt.Fprintf(outWriter, "  Copied:  %d file(s)\n", r.filesCopied)
	}
	if r.editor != "" {
		fmt.Fprintf(outWriter, "  Opened:  %s\n", r.editor)
	} else {
		fmt.Fprintf(outWriter, "\n  cd %s\n", r.path)
	}
}
