package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"4d63.com/testcli"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/gwt/internal/prompt"
)

func setupGit(t *testing.T) {
	dir := testcli.MkdirTemp(t)
	t.Setenv("HOME", dir)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	testcli.Exec(t, "git config --global user.email 'tests@example.com'")
	testcli.Exec(t, "git config --global user.name 'Tests'")
	testcli.Exec(t, "git config --global init.defaultBranch main")
}

// setupRepo creates <tmp>/app with one commit on main, changes into it and
// returns its real path.
func setupRepo(t *testing.T) string {
	setupGit(t)

	parent, err := filepath.EvalSymlinks(testcli.MkdirTemp(t))
	require.NoError(t, err)
	repo := filepath.Join(parent, "app")
	require.NoError(t, os.Mkdir(repo, 0o755))

	testcli.Chdir(t, repo)
	testcli.Exec(t, "git init")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "README.md"), []byte("# app\n"), 0o644))
	testcli.Exec(t, "git add .")
	testcli.Exec(t, "git commit -m 'Initial commit'")
	return repo
}

func gitExec(t *testing.T, command string) string {
	_, stdout, _ := testcli.Exec(t, command)
	return strings.TrimSpace(stdout)
}

// addWorktree creates branch in a sibling worktree named like gwt would.
func addWorktree(t *testing.T, repo, branch string) string {
	path := filepath.Join(filepath.Dir(repo), "app-"+sanitizeBranchName(branch))
	testcli.Exec(t, fmt.Sprintf("git worktree add -b %s %s", branch, path))
	return path
}

func gwt(t *testing.T, args ...string) (int, string, string) {
	return testcli.Main(t, append([]string{"gwt"}, args...), nil, Run)
}

func writeConfig(t *testing.T, repo, content string) {
	dir := filepath.Join(repo, ".gwt")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config"), []byte(content), 0o644))
}

// scripted answers prompts from queues, in order, and records titles.
type scripted struct {
	selects  []string
	multi    [][]string
	confirms []bool
	inputs   []string

	titles  []string
	offered [][]prompt.Option
}

var errScriptExhausted = errors.New("no scripted answer left")

func (s *scripted) Select(title string, options []prompt.Option) (string, error) {
	s.titles = append(s.titles, title)
	s.offered = append(s.offered, options)
	if len(s.selects) == 0 {
		return "", errScriptExhausted
	}
	v := s.selects[0]
	s.selects = s.selects[1:]
	return v, nil
}

func (s *scripted) MultiSelect(title string, options []prompt.Option) ([]string, error) {
	s.titles = append(s.titles, title)
	s.offered = append(s.offered, options)
	if len(s.multi) == 0 {
		return nil, errScriptExhausted
	}
	v := s.multi[0]
	s.multi = s.multi[1:]
	return v, nil
}

func (s *scripted) Confirm(title string, defaultYes bool) (bool, error) {
	s.titles = append(s.titles, title)
	if len(s.confirms) == 0 {
		return false, errScriptExhausted
	}
	v := s.confirms[0]
	s.confirms = s.confirms[1:]
	return v, nil
}

// Input behaves like the terminal prompt: an empty answer takes the
// placeholder, then validate runs.
func (s *scripted) Input(title, placeholder string, validate func(string) error) (string, error) {
	s.titles = append(s.titles, title)
	if len(s.inputs) == 0 {
		return "", errScriptExhausted
	}
	v := s.inputs[0]
	s.inputs = s.inputs[1:]
	if v == "" {
		v = placeholder
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

// usePrompter makes every command in the test use p.
func usePrompter(t *testing.T, p prompt.Prompter) {
	old := newPrompter
	newPrompter = func(io.Reader, io.Writer) prompt.Prompter { return p }
	t.Cleanup(func() { newPrompter = old })
}
