package worktree

import (
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/gwt/internal/model"
)

// Repo identifies the repository a command runs against.
type Repo struct {
	// Dir is the top level of the working tree containing the directory
	// the repo was opened from. It may be a linked worktree.
	Dir string

	// Root is the main worktree root. The config file lives under it and
	// it can never be deleted.
	Root string
}

// Name returns the base name of the main worktree, used as the prefix for
// sibling worktree directories.
func (r *Repo) Name() string {
	return filepath.Base(r.Root)
}

// IsMain reports whether path refers to the main worktree.
func (r *Repo) IsMain(path string) bool {
	return canonicalPath(path) == r.Root
}

// OpenRepo resolves the repository containing dir.
//
// It returns a model.ErrNotInGitRepo error when dir is not inside a
// working tree. The main root is derived from --git-common-dir, which
// points at the shared .git directory even from inside a linked worktree.
func (m *Manager) OpenRepo(dir string) (*Repo, error) {
	top, err := m.GetRepoRoot(dir)
	if err != nil {
		return nil, model.NotInGitRepo()
	}

	repo := &Repo{Dir: canonicalPath(top), Root: canonicalPath(top)}

	out, err := m.run(dir, "rev-parse", "--git-common-dir")
	if err != nil {
		return repo, nil
	}
	commonDir := strings.TrimSpace(out)
	if !filepath.IsAbs(commonDir) {
		commonDir = filepath.Join(dir, commonDir)
	}
	// A common dir not named .git means a bare or separated layout; the
	// working tree top level is the best root available then.
	if filepath.Base(commonDir) == ".git" {
		repo.Root = canonicalPath(filepath.Dir(commonDir))
	}

	return repo, nil
}

// canonicalPath returns an absolute, symlink-resolved form of path. Paths
// that do not exist are only cleaned.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
