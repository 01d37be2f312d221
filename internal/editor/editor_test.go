package editor

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/gwt/internal/config"
	"github.com/shinji-kodama/gwt/internal/model"
)

func TestIsAvailable(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "my-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755))

	assert.True(t, IsAvailable("git"), "git is on PATH in every test environment")
	assert.True(t, IsAvailable("git --version"), "only the first word is checked")
	assert.True(t, IsAvailable(script))
	assert.False(t, IsAvailable(filepath.Join(dir, "missing-editor")))
	assert.False(t, IsAvailable(dir), "a directory is not an editor")
	assert.False(t, IsAvailable("definitely-not-an-editor-gwt"))
	assert.False(t, IsAvailable(""))
	assert.False(t, IsAvailable("   "))
}

func TestLaunchNone(t *testing.T) {
	assert.NoError(t, Launch(config.EditorConfig{Type: model.EditorNone, Command: "ignored"}, t.TempDir()))
}

func TestLaunchEmptyCommand(t *testing.T) {
	err := Launch(config.EditorConfig{Type: model.EditorCustom}, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gwt config setup")
}

func TestLaunchMissingEditor(t *testing.T) {
	err := Launch(config.EditorConfig{Type: model.EditorCustom, Command: "definitely-not-an-editor-gwt"}, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrEditorNotFound))
}

// TestLaunchDetached runs a small script as the editor and checks it
// received the worktree path without Launch waiting for it to finish.
func TestLaunchDetached(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the editor")
	}

	dir := t.TempDir()
	marker := filepath.Join(dir, "opened")
	script := filepath.Join(dir, "fake-editor")
	content := "#!/bin/sh\nprintf '%s' \"$1\" > \"" + marker + "\"\nsleep 5\n"
	require.NoError(t, os.WriteFile(script, []byte(content), 0o755))

	worktreePath := filepath.Join(dir, "wt")

	start := time.Now()
	require.NoError(t, Launch(config.EditorConfig{Type: model.EditorCustom, Command: script}, worktreePath))
	assert.Less(t, time.Since(start), 4*time.Second, "Launch must not wait for the editor")

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(marker)
		return err == nil && string(data) == worktreePath
	}, 3*time.Second, 20*time.Millisecond)
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"code", "-n"}, Fields("  code  -n "))
	assert.Empty(t, Fields(""))
}
