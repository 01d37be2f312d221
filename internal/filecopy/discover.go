package filecopy

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shinji-kodama/gwt/internal/model"
)

// Discover lists files and directories under root down to depth levels
// (1 means only the root's direct children). The .git entry is always
// excluded. Entries are sorted case-insensitively by name. A missing or
// unreadable root yields an empty list.
func Discover(root string, depth int) []model.FileEntry {
	if depth < 1 {
		depth = 1
	}

	entries := []model.FileEntry{}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if d.Name() == ".git" {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel := filepath.ToSlash(relPath)
		level := strings.Count(rel, "/") + 1

		entries = append(entries, model.FileEntry{Name: rel, IsDirectory: d.IsDir()})

		if d.IsDir() && level >= depth {
			return filepath.SkipDir
		}
		return nil
	})

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if a != b {
			return a < b
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Names returns the entry names in order, the form used for filesToCopy.
func Names(entries []model.FileEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}
