package config

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/gwt/internal/model"
	"github.com/shinji-kodama/gwt/internal/worktree"
)

// setupRepo initializes an empty git repository; config operations only
// need rev-parse to succeed, not a commit.
func setupRepo(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	out, err := exec.Command("git", "-C", dir, "init").CombinedOutput()
	require.NoError(t, err, string(out))
	return dir
}

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, DirName), 0o755))
	require.NoError(t, os.WriteFile(Path(root), []byte(content), 0o644))
}

func TestLoadMissing(t *testing.T) {
	repo := setupRepo(t)

	cfg, err := Load(worktree.NewManager(), repo)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadOutsideRepo(t *testing.T) {
	cfg, err := Load(worktree.NewManager(), t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadCorrupt(t *testing.T) {
	repo := setupRepo(t)
	writeConfig(t, repo, "{ this is not json")

	cfg, err := Load(worktree.NewManager(), repo)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadNonStringVersion(t *testing.T) {
	repo := setupRepo(t)
	writeConfig(t, repo, `{"version":2,"editor":{"type":"none"},"filesToCopy":[]}`)

	cfg, err := Load(worktree.NewManager(), repo)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadUnsupportedVersion(t *testing.T) {
	repo := setupRepo(t)
	writeConfig(t, repo, `{"version":"9.9","editor":{"type":"none"},"filesToCopy":[]}`)

	_, err := Load(worktree.NewManager(), repo)
	assert.True(t, errors.Is(err, model.ErrInvalidConfigVersion))
}

// TestLoadMigratesV1 verifies a v1 file is returned as v2, and that saving
// and reloading keeps the same logical value.
func TestLoadMigratesV1(t *testing.T) {
	repo := setupRepo(t)
	m := worktree.NewManager()
	writeConfig(t, repo, `{"version":"1.0","ide":"idea"}`)

	cfg, err := Load(m, repo)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "2.0", cfg.Version)
	assert.Equal(t, EditorConfig{Type: model.EditorCustom, Command: "idea"}, cfg.Editor)
	assert.Equal(t, []string{}, cfg.FilesToCopy)

	require.NoError(t, Save(m, repo, cfg))

	data, err := os.ReadFile(Path(repo))
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"2.0","editor":{"type":"custom","command":"idea"},"filesToCopy":[]}`, string(data))

	again, err := Load(m, repo)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

// TestSaveLoadRoundTrip verifies every field survives a save/load cycle.
func TestSaveLoadRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	m := worktree.NewManager()

	in := &Config{
		Version:         "2.0",
		Editor:          EditorConfig{Type: model.EditorCustom, Command: "code -n"},
		FilesToCopy:     []string{".env*", ".idea", "config/*.local.yml"},
		CheckForUpdates: boolPtr(false),
	}
	require.NoError(t, Save(m, repo, in))

	out, err := Load(m, repo)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

// TestSaveFromSubdirectory verifies the file lands at the repository root.
func TestSaveFromSubdirectory(t *testing.T) {
	repo := setupRepo(t)
	sub := filepath.Join(repo, "pkg", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	require.NoError(t, Save(worktree.NewManager(), sub, &Config{Editor: EditorConfig{Type: model.EditorNone}}))
	assert.FileExists(t, Path(repo))
}

func TestSaveOutsideRepo(t *testing.T) {
	err := Save(worktree.NewManager(), t.TempDir(), &Config{Editor: EditorConfig{Type: model.EditorNone}})
	assert.True(t, errors.Is(err, model.ErrNotInGitRepo))
}

func TestSaveRejectsInvalid(t *testing.T) {
	repo := setupRepo(t)

	err := Save(worktree.NewManager(), repo, &Config{Editor: EditorConfig{Type: model.EditorNone}, FilesToCopy: []string{"../escape"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidFilePattern))
	assert.NoFileExists(t, Path(repo))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("/repo", ".gwt", "config"), Path("/repo"))
	assert.Equal(t, filepath.Join("/repo", ".gwt", "update-check"), StampPath("/repo"))
}
