package filecopy

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/shinji-kodama/gwt/internal/model"
)

// IsPattern reports whether entry uses glob syntax.
func IsPattern(entry string) bool {
	return strings.ContainsAny(entry, "*?[{")
}

// ValidatePattern checks that entry is a relative path inside the worktree
// and, for glob entries, that it compiles.
func ValidatePattern(entry string) error {
	clean := normalize(entry)
	switch {
	case clean == "" || clean == ".":
		return model.InvalidFilePattern(entry, errors.New("empty entry"))
	case strings.HasPrefix(clean, "/") || filepath.IsAbs(entry):
		return model.InvalidFilePattern(entry, errors.New("must be relative to the repository root"))
	case clean == ".." || strings.HasPrefix(clean, "../"):
		return model.InvalidFilePattern(entry, errors.New("must not leave the repository"))
	}

	if IsPattern(clean) {
		if _, err := glob.Compile(clean, '/'); err != nil {
			return model.InvalidFilePattern(entry, err)
		}
	}
	return nil
}

// Copy copies each entry from the src worktree into dst and returns the
// number of items copied. Missing sources are skipped silently; invalid
// patterns and copy failures are reported on warn and skipped.
func Copy(src, dst string, entries []string, warn io.Writer) int {
	if warn == nil {
		warn = io.Discard
	}

	copied := 0
	for _, entry := range entries {
		if err := ValidatePattern(entry); err != nil {
			fmt.Fprintf(warn, "Warning: skipping %q: %v\n", entry, err)
			continue
		}
		rel := normalize(entry)

		targets := []string{rel}
		if IsPattern(rel) {
			matches, err := expand(src, rel)
			if err != nil {
				fmt.Fprintf(warn, "Warning: failed to expand %q: %v\n", entry, err)
				continue
			}
			targets = matches
		}

		for _, target := range targets {
			ok, err := copyEntry(src, dst, target)
			if err != nil {
				fmt.Fprintf(warn, "Warning: failed to copy %s: %v\n", target, err)
				continue
			}
			if ok {
				copied++
			}
		}
	}
	return copied
}

// expand returns the slash-separated relative paths under root that match
// pattern. Matching directories are returned whole and not descended into.
// The walk stops at the pattern's depth unless it contains "**".
func expand(root, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, err
	}
	maxDepth := strings.Count(pattern, "/") + 1
	unbounded := strings.Contains(pattern, "**")

	var matches []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == root {
				return walkErr
			}
			return nil
		}
		if p == root {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		relPath, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel := filepath.ToSlash(relPath)

		if g.Match(rel) {
			matches = append(matches, rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() && !unbounded && strings.Count(rel, "/")+1 >= maxDepth {
			return filepath.SkipDir
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return matches, err
}

// copyEntry copies one relative path. It reports false without error when
// the source does not exist or is a symlink.
func copyEntry(srcRoot, dstRoot, rel string) (bool, error) {
	src := filepath.Join(srcRoot, filepath.FromSlash(rel))
	dst := filepath.Join(dstRoot, filepath.FromSlash(rel))

	info, err := os.Lstat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(dst), err)
	}

	if info.IsDir() {
		return true, copyTree(src, dst)
	}
	return true, copyFile(src, dst, info.Mode().Perm())
}

// copyTree recursively copies srcDir to dstDir, preserving file modes.
// Symbolic links are skipped to keep the copy predictable.
func copyTree(srcDir, dstDir string) error {
	return filepath.Walk(srcDir, func(p string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error walking source directory at %s: %w", p, walkErr)
		}

		relPath, err := filepath.Rel(srcDir, p)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", p, err)
		}
		dstPath := filepath.Join(dstDir, relPath)

		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		if info.IsDir() {
			if err := os.MkdirAll(dstPath, info.Mode().Perm()); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}

		return copyFile(p, dstPath, info.Mode().Perm())
	})
}

// copyFile streams src to dst, creating or truncating dst with mode.
func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	return os.Chmod(dst, mode)
}

// normalize converts entry to a cleaned, slash-separated relative form
// without a trailing slash.
func normalize(entry string) string {
	e := strings.TrimSpace(filepath.ToSlash(entry))
	if e == "" {
		return ""
	}
	return path.Clean(e)
}
