package worktree

import (
	"os"
	"path/filepath"
	"strings"
)

// FindOrphaned returns sibling directories of the main worktree that look
// like abandoned gwt worktrees: the name starts with the repository name,
// the directory is not one of the active paths, and it holds a .git file
// with a gitdir pointer. active should come from ActivePaths so detached
// worktrees count as active. Results are sorted by name.
func (m *Manager) FindOrphaned(repo *Repo, active []string) ([]string, error) {
	parent := filepath.Dir(repo.Root)
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil, err
	}

	activePaths := make(map[string]bool, len(active))
	for _, p := range active {
		activePaths[canonicalPath(p)] = true
	}

	prefix := repo.Name()
	var orphaned []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		full := canonicalPath(filepath.Join(parent, entry.Name()))
		if full == repo.Root || activePaths[full] {
			continue
		}
		if m.IsWorktree(full) {
			orphaned = append(orphaned, full)
		}
	}
	return orphaned, nil
}
