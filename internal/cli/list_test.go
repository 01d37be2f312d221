package cli

import (
	"encoding/json"
	"testing"

	"4d63.com/testcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListJSON(t *testing.T) {
	repo := setupRepo(t)
	feature := addWorktree(t, repo, "feature/x")
	commit := gitExec(t, "git rev-parse HEAD")

	exitCode, stdout, stderr := gwt(t, "list", "--json")
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "", stderr)

	var result struct {
		Worktrees []listWorktreeJSON `json:"worktrees"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, []listWorktreeJSON{
		{Path: repo, Branch: "main", Commit: commit, IsMain: true},
		{Path: feature, Branch: "feature/x", Commit: commit, IsMain: false},
	}, result.Worktrees)
}

func TestListText(t *testing.T) {
	repo := setupRepo(t)
	feature := addWorktree(t, repo, "feature/x")
	commit := gitExec(t, "git rev-parse --short=7 HEAD")

	exitCode, stdout, _ := gwt(t, "ls")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "PATH")
	assert.Contains(t, stdout, "BRANCH")
	assert.Contains(t, stdout, repo)
	assert.Contains(t, stdout, feature)
	assert.Contains(t, stdout, "feature/x")
	assert.Contains(t, stdout, commit)
}

// TestListFromLinkedWorktree checks the same list is shown from inside a
// linked worktree, with the main worktree still flagged.
func TestListFromLinkedWorktree(t *testing.T) {
	repo := setupRepo(t)
	feature := addWorktree(t, repo, "feature/x")
	testcli.Chdir(t, feature)

	exitCode, stdout, _ := gwt(t, "list", "--json")
	assert.Equal(t, 0, exitCode)

	var result struct {
		Worktrees []listWorktreeJSON `json:"worktrees"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.Len(t, result.Worktrees, 2)
	assert.True(t, result.Worktrees[0].IsMain)
	assert.Equal(t, repo, result.Worktrees[0].Path)
}

func TestListNotInRepo(t *testing.T) {
	setupGit(t)
	testcli.Chdir(t, testcli.MkdirTemp(t))

	exitCode, stdout, stderr := gwt(t, "list")
	assert.Equal(t, 1, exitCode)
	assert.Equal(t, "", stdout)
	assert.Equal(t, "Error: Not in a git repository\n", stderr)
}

func TestListNotInRepoJSON(t *testing.T) {
	setupGit(t)
	testcli.Chdir(t, testcli.MkdirTemp(t))

	exitCode, _, stderr := gwt(t, "list", "--json")
	assert.Equal(t, 1, exitCode)
	assert.JSONEq(t, `{"error": {"message": "Not in a git repository"}}`, stderr)
}

// TestListDirFlag runs list against a repository other than the cwd.
func TestListDirFlag(t *testing.T) {
	repo := setupRepo(t)
	testcli.Chdir(t, testcli.MkdirTemp(t))

	exitCode, stdout, _ := gwt(t, "-C", repo, "list", "--json")
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, `"path": "`+repo+`"`)
}
