package filecopy

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/gwt/internal/model"
)

// writeTree creates files (relative slash paths) with their content under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		entry string
		valid bool
	}{
		{".env", true},
		{".env*", true},
		{".idea", true},
		{"config/*.local.yml", true},
		{"**/*.pem", true},
		{"{.env,.envrc}", true},
		{"./.env", true},
		{"", false},
		{"   ", false},
		{"/etc/passwd", false},
		{"../outside", false},
		{"a/../../outside", false},
		{"[unclosed", false},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			err := ValidatePattern(tt.entry)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, model.ErrInvalidFilePattern))
			}
		})
	}
}

// TestCopyPlainEntries verifies files and whole directories are copied and
// missing entries are skipped without a warning.
func TestCopyPlainEntries(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{
		".env":                    "SECRET=1",
		".idea/workspace.xml":     "<xml/>",
		".idea/inspections/a.xml": "<a/>",
	})

	var warn bytes.Buffer
	n := Copy(src, dst, []string{".env", ".idea", "missing.txt"}, &warn)

	assert.Equal(t, 2, n)
	assert.Empty(t, warn.String())
	assert.Equal(t, "SECRET=1", readFile(t, filepath.Join(dst, ".env")))
	assert.Equal(t, "<a/>", readFile(t, filepath.Join(dst, ".idea", "inspections", "a.xml")))
}

// TestCopyGlob verifies "*" stays within one level and matches dotfiles.
func TestCopyGlob(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{
		".env":             "a",
		".env.local":       "b",
		"nested/.env.deep": "c",
		"README.md":        "d",
	})

	n := Copy(src, dst, []string{".env*"}, nil)

	assert.Equal(t, 2, n)
	assert.FileExists(t, filepath.Join(dst, ".env"))
	assert.FileExists(t, filepath.Join(dst, ".env.local"))
	assert.NoFileExists(t, filepath.Join(dst, "nested", ".env.deep"))
	assert.NoFileExists(t, filepath.Join(dst, "README.md"))
}

func TestCopyNestedAndRecursiveGlob(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{
		"config/app.local.yml": "local",
		"config/app.yml":       "tracked",
		"certs/dev/key.pem":    "pem",
		".git/secret.pem":      "never",
	})

	n := Copy(src, dst, []string{"config/*.local.yml", "**/*.pem"}, nil)

	assert.Equal(t, 2, n)
	assert.Equal(t, "local", readFile(t, filepath.Join(dst, "config", "app.local.yml")))
	assert.NoFileExists(t, filepath.Join(dst, "config", "app.yml"))
	assert.Equal(t, "pem", readFile(t, filepath.Join(dst, "certs", "dev", "key.pem")))
	assert.NoFileExists(t, filepath.Join(dst, ".git", "secret.pem"))
}

// TestCopyInvalidPatternWarns verifies a bad entry is reported and skipped
// while the rest of the list is still copied.
func TestCopyInvalidPatternWarns(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{".env": "x"})

	var warn bytes.Buffer
	n := Copy(src, dst, []string{"[bad", ".env"}, &warn)

	assert.Equal(t, 1, n)
	assert.Contains(t, warn.String(), "Warning: skipping \"[bad\"")
	assert.FileExists(t, filepath.Join(dst, ".env"))
}

// TestCopyOverwritesAndPreservesMode verifies existing files are replaced
// and the executable bit survives.
func TestCopyOverwritesAndPreservesMode(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{"run.sh": "#!/bin/sh\necho new\n"})
	require.NoError(t, os.Chmod(filepath.Join(src, "run.sh"), 0o755))
	writeTree(t, dst, map[string]string{"run.sh": "old"})

	n := Copy(src, dst, []string{"run.sh"}, nil)
	require.Equal(t, 1, n)

	assert.Equal(t, "#!/bin/sh\necho new\n", readFile(t, filepath.Join(dst, "run.sh")))
	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestCopySkipsSymlinks(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{"real.txt": "x"})
	require.NoError(t, os.Symlink(filepath.Join(src, "real.txt"), filepath.Join(src, "link.txt")))

	n := Copy(src, dst, []string{"link.txt"}, nil)

	assert.Equal(t, 0, n)
	assert.NoFileExists(t, filepath.Join(dst, "link.txt"))
}

func TestCopyMissingSource(t *testing.T) {
	var warn bytes.Buffer
	n := Copy(filepath.Join(t.TempDir(), "gone"), t.TempDir(), []string{".env", "*.yml"}, &warn)

	assert.Equal(t, 0, n)
	assert.Empty(t, warn.String())
}
