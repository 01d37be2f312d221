package worktree

import (
	"path/filepath"

	"github.com/shinji-kodama/gwt/internal/model"
)

// LookupKind distinguishes how a Lookup matches worktrees.
type LookupKind int

const (
	// ByPath matches the canonical worktree path.
	ByPath LookupKind = iota

	// ByBranch matches the short branch name.
	ByBranch
)

// Lookup is a single way of identifying a worktree.
type Lookup struct {
	Kind  LookupKind
	Value string
}

// Find returns the first worktree matching l.
func (l Lookup) Find(worktrees []model.Worktree) (model.Worktree, bool) {
	for _, wt := range worktrees {
		switch l.Kind {
		case ByPath:
			if canonicalPath(wt.Path) == l.Value {
				return wt, true
			}
		case ByBranch:
			if wt.Branch == l.Value {
				return wt, true
			}
		}
	}
	return model.Worktree{}, false
}

// Lookups returns the lookups tried for a user-supplied target, in priority
// order. Relative paths are resolved against baseDir and symlinks are
// resolved before anything is compared, so the path lookup always wins over
// a branch of the same name.
func Lookups(target, baseDir string) []Lookup {
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return []Lookup{
		{Kind: ByPath, Value: canonicalPath(path)},
		{Kind: ByBranch, Value: target},
	}
}

// Resolve finds the worktree a user meant by target: a path (absolute, or
// relative to baseDir) or a branch name. Not matching either yields a
// model.ErrWorktreeNotFound error.
func Resolve(worktrees []model.Worktree, target, baseDir string) (model.Worktree, error) {
	for _, l := range Lookups(target, baseDir) {
		if wt, ok := l.Find(worktrees); ok {
			return wt, nil
		}
	}
	return model.Worktree{}, model.WorktreeNotFound(target)
}

// IsActive reports whether path is one of the active worktree paths,
// comparing real paths.
func IsActive(active []string, path string) bool {
	want := canonicalPath(path)
	for _, p := range active {
		if canonicalPath(p) == want {
			return true
		}
	}
	return false
}
