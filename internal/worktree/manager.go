package worktree

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/gwt/internal/model"
)

// Manager provides Git worktree operations by invoking the git CLI.
//
// It is stateless apart from the git binary to run; all methods receive
// the directory to operate in as a parameter.
type Manager struct {
	// Git is the executable used for every command. Defaults to "git".
	Git string
}

// NewManager creates a new worktree Manager that runs "git" from PATH.
func NewManager() *Manager {
	return &Manager{Git: "git"}
}

// AddOptions describes a `git worktree add` invocation.
type AddOptions struct {
	// Path is where the new worktree directory is created.
	Path string

	// Branch is the branch to check out, or the name of the branch to
	// create when NewBranch is set.
	Branch string

	// NewBranch creates Branch with -b, starting at Base.
	NewBranch bool

	// Base is the start point for a new branch. Empty means HEAD.
	Base string
}

// Add creates a new Git worktree.
//
// Two forms are supported:
//  1. NewBranch: `git worktree add -b <branch> <path> [<base>]`
//  2. existing branch: `git worktree add <path> <branch>`
//
// Starting a new branch from a remote-tracking branch (e.g. origin/x)
// lets git configure upstream tracking on its own.
func (m *Manager) Add(dir string, opts AddOptions) error {
	args := []string{"worktree", "add"}
	if opts.NewBranch {
		args = append(args, "-b", opts.Branch, opts.Path)
		if opts.Base != "" {
			args = append(args, opts.Base)
		}
	} else {
		args = append(args, opts.Path, opts.Branch)
	}

	_, err := m.run(dir, args...)
	return err
}

// List returns every complete worktree record of the repository containing dir,
// main worktree first.
func (m *Manager) List(dir string) ([]model.Worktree, error) {
	output, err := m.run(dir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}

	return parsePorcelainOutput(output), nil
}

// ActivePaths returns the path of every worktree git has registered,
// including the detached-HEAD, bare and prunable ones List leaves out.
func (m *Manager) ActivePaths(dir string) ([]string, error) {
	output, err := m.run(dir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}

	return parseWorktreePaths(output), nil
}

// ListBranches returns local and remote-tracking branch names.
//
// The two sides are queried independently; if either git call fails that
// side is simply empty. Remote entries containing "HEAD" (the origin/HEAD
// symref) are dropped.
func (m *Manager) ListBranches(dir string) model.BranchList {
	branches := model.BranchList{Local: []string{}, Remote: []string{}}

	if out, err := m.run(dir, "branch", "--list", "--format=%(refname:short)"); err == nil {
		branches.Local = parseBranchOutput(out, false)
	}
	if out, err := m.run(dir, "branch", "-r", "--format=%(refname:short)"); err == nil {
		branches.Remote = parseBranchOutput(out, true)
	}

	return branches
}

// Remove deletes a Git worktree at the specified path.
//
// Without force, git refuses to remove a worktree with modified or
// untracked files; IsUncommittedChanges recognizes that failure.
func (m *Manager) Remove(dir, worktreePath string, force bool) error {
	args := []string{"worktree", "remove", worktreePath}
	if force {
		args = []string{"worktree", "remove", "--force", worktreePath}
	}

	_, err := m.run(dir, args...)
	return err
}

// Prune drops administrative entries for worktrees whose directories no
// longer exist.
func (m *Manager) Prune(dir string) error {
	_, err := m.run(dir, "worktree", "prune")
	return err
}

// IsUncommittedChanges reports whether err is git refusing to remove a dirty
// worktree, the one failure that may be retried with force.
func IsUncommittedChanges(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "modified or untracked files") ||
		strings.Contains(msg, "uncommitted changes")
}

// IsWorktree checks whether the given path is a linked Git worktree (as
// opposed to a main repository working directory).
//
// Linked worktrees have a .git FILE containing a "gitdir:" pointer to the
// main repository's .git/worktrees/<name> directory. The main working
// directory has a .git DIRECTORY.
func (m *Manager) IsWorktree(path string) bool {
	gitPath := filepath.Join(path, ".git")

	info, err := os.Lstat(gitPath)
	if err != nil || info.IsDir() {
		return false
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return false
	}

	return strings.HasPrefix(string(content), "gitdir:")
}

// GetRepoRoot returns the top-level directory of the working tree
// containing path.
//
// For linked worktrees this is the worktree root, NOT the main repo root.
// Use OpenRepo when the main worktree is needed.
func (m *Manager) GetRepoRoot(path string) (string, error) {
	output, err := m.run(path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// GetCurrentBranch returns the short name of the branch checked out at
// path, or "HEAD" when detached.
func (m *Manager) GetCurrentBranch(path string) (string, error) {
	output, err := m.run(path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// BranchExists checks whether a ref with the given name resolves in the repository.
func (m *Manager) BranchExists(dir, branch string) bool {
	_, err := m.run(dir, "rev-parse", "--verify", "--quiet", branch)
	return err == nil
}

// LocalBranchExists checks refs/heads only, so "origin/x" never counts as a
// local branch named x.
func (m *Manager) LocalBranchExists(dir, branch string) bool {
	return m.BranchExists(dir, "refs/heads/"+branch)
}

// run executes a git command with the given arguments in dir.
//
// The directory is passed to git via -C rather than exec.Cmd.Dir so git
// itself resolves it. On failure the stderr output is surfaced verbatim in a
// model.CLIError of kind ErrGitCommand.
func (m *Manager) run(dir string, args ...string) (string, error) {
	git := m.Git
	if git == "" {
		git = "git"
	}
	fullArgs := append([]string{"-C", dir}, args...)

	// #nosec G204: args are constructed internally
	cmd := exec.Command(git, fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", model.GitCommandFailed(args, strings.TrimSpace(stderr.String()), err)
	}

	return stdout.String(), nil
}

// parsePorcelainOutput parses the output of `git worktree list --porcelain`
// into worktrees.
//
// Records are separated by blank lines. Within a record only the
// "worktree ", "HEAD " and "branch " lines matter; markers such as "bare",
// "detached", "locked" or "prunable" are ignored. A record missing any of
// the three values is dropped, which excludes detached-HEAD worktrees.
//
// Example input:
//
//	worktree /path/to/main
//	HEAD abc123
//	branch refs/heads/main
//
//	worktree /path/to/feature
//	HEAD def456
//	branch refs/heads/feature
func parsePorcelainOutput(output string) []model.Worktree {
	worktrees := []model.Worktree{}

	output = strings.ReplaceAll(output, "\r\n", "\n")
	for _, record := range strings.Split(output, "\n\n") {
		var wt model.Worktree
		for _, line := range strings.Split(record, "\n") {
			switch {
			case strings.HasPrefix(line, "worktree "):
				wt.Path = strings.TrimPrefix(line, "worktree ")
			case strings.HasPrefix(line, "HEAD "):
				wt.Commit = strings.TrimPrefix(line, "HEAD ")
			case strings.HasPrefix(line, "branch "):
				wt.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
			}
		}

		if wt.Path == "" || wt.Commit == "" || wt.Branch == "" {
			continue
		}
		worktrees = append(worktrees, wt)
	}

	return worktrees
}

// parseWorktreePaths collects the path of every "worktree " line,
// whether or not the rest of its record is complete.
func parseWorktreePaths(output string) []string {
	paths := []string{}
	output = strings.ReplaceAll(output, "\r\n", "\n")
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "worktree ") {
			paths = append(paths, strings.TrimPrefix(line, "worktree "))
		}
	}
	return paths
}

// parseBranchOutput turns one-name-per-line output into a slice, trimming
// whitespace and dropping blanks. dropHEAD removes any entry mentioning HEAD.
func parseBranchOutput(output string, dropHEAD bool) []string {
	branches := []string{}
	for _, line := range strings.Split(output, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if dropHEAD && strings.Contains(name, "HEAD") {
			continue
		}
		branches = append(branches, name)
	}
	return branches
}
