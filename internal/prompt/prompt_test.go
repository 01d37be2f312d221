package prompt

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/gwt/internal/model"
)

// recorder answers Input with a fixed query and Select with the first
// offered option, remembering what it was shown.
type recorder struct {
	NonInteractive
	query   string
	offered []Option
	inputs  int
}

func (r *recorder) Input(string, string, func(string) error) (string, error) {
	r.inputs++
	return r.query, nil
}

func (r *recorder) Select(_ string, options []Option) (string, error) {
	r.offered = options
	return options[0].Value, nil
}

var branchOptions = []Option{
	{Label: "main", Value: "main"},
	{Label: "feature/add-user", Value: "feature/add-user"},
	{Label: "feature/fix-bug", Value: "feature/fix-bug"},
	{Label: "origin/feature/remote", Value: "origin/feature/remote"},
}

func TestFilter(t *testing.T) {
	got := Filter("fix", branchOptions)
	require.Len(t, got, 1)
	assert.Equal(t, "feature/fix-bug", got[0].Value)

	assert.Equal(t, branchOptions, Filter("", branchOptions))
	assert.Equal(t, branchOptions, Filter("zzz", branchOptions), "no match shows everything")
}

func TestFilterDuplicateLabels(t *testing.T) {
	options := []Option{{Label: "dup", Value: "a"}, {Label: "dup", Value: "b"}, {Label: "other", Value: "c"}}
	assert.Equal(t, []Option{{Label: "dup", Value: "a"}, {Label: "dup", Value: "b"}}, Filter("dup", options))
}

func TestSelectFuzzyRanksThenSelects(t *testing.T) {
	r := &recorder{query: "feat"}

	value, err := SelectFuzzy(r, "Branch", branchOptions)
	require.NoError(t, err)
	// Both feature branches share the prefix bonus; the shorter one wins.
	assert.Equal(t, "feature/fix-bug", value)
	require.Len(t, r.offered, 3)
	assert.Equal(t, "feature/add-user", r.offered[1].Value)
	assert.Equal(t, "origin/feature/remote", r.offered[2].Value)
}

// TestSelectFuzzySingleMatch verifies a unique match is chosen without a list.
func TestSelectFuzzySingleMatch(t *testing.T) {
	r := &recorder{query: "remote"}

	value, err := SelectFuzzy(r, "Branch", branchOptions)
	require.NoError(t, err)
	assert.Equal(t, "origin/feature/remote", value)
	assert.Nil(t, r.offered)
}

func TestSelectFuzzyEmpty(t *testing.T) {
	_, err := SelectFuzzy(&recorder{}, "Branch", nil)
	assert.Error(t, err)
}

func TestNonInteractive(t *testing.T) {
	var p Prompter = NonInteractive{}

	_, err := p.Select("x", branchOptions)
	assert.True(t, errors.Is(err, model.ErrNonInteractive))
	_, err = p.MultiSelect("x", branchOptions)
	assert.True(t, errors.Is(err, model.ErrNonInteractive))
	_, err = p.Confirm("x", true)
	assert.True(t, errors.Is(err, model.ErrNonInteractive))
	_, err = p.Input("x", "", nil)
	assert.True(t, errors.Is(err, model.ErrNonInteractive))
}

// TestNewWithoutTerminal verifies buffers and pipes never get an interactive prompter.
func TestNewWithoutTerminal(t *testing.T) {
	assert.IsType(t, NonInteractive{}, New(&bytes.Buffer{}, &bytes.Buffer{}))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	assert.False(t, IsTerminal(r))
	assert.IsType(t, NonInteractive{}, New(r, w))
}
