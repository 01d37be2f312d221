// Package prompt asks the user questions on the terminal.
//
// Commands depend on the Prompter interface. On a terminal New returns a
// charmbracelet/huh backed implementation; otherwise every prompt fails
// with model.ErrNonInteractive so scripts have to pass flags instead.
package prompt

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/shinji-kodama/gwt/internal/fuzzy"
	"github.com/shinji-kodama/gwt/internal/model"
)

// ErrCancelled is returned when the user aborts a prompt (Ctrl+C / Esc).
var ErrCancelled = errors.New("cancelled")

// Option is one choice in a select prompt.
type Option struct {
	Label string
	Value string
}

// Prompter asks questions and returns the answers.
type Prompter interface {
	Select(title string, options []Option) (string, error)
	MultiSelect(title string, options []Option) ([]string, error)
	Confirm(title string, defaultYes bool) (bool, error)
	Input(title, placeholder string, validate func(string) error) (string, error)
}

// IsTerminal reports whether f is an *os.File attached to a terminal.
func IsTerminal(f any) bool {
	file, ok := f.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New returns an interactive Prompter when both in and out are terminals
// and a NonInteractive one otherwise.
func New(in io.Reader, out io.Writer) Prompter {
	if IsTerminal(in) && IsTerminal(out) {
		return &Interactive{in: in, out: out}
	}
	return NonInteractive{}
}

// Interactive renders prompts with huh.
type Interactive struct {
	in  io.Reader
	out io.Writer
}

func (p *Interactive) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huh.ThemeCharm()).
		WithInput(p.in).
		WithOutput(p.out)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return err
	}
	return nil
}

func huhOptions(options []Option) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Label, o.Value))
	}
	return opts
}

// Select asks for exactly one of options.
func (p *Interactive) Select(title string, options []Option) (string, error) {
	var value string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions(options)...).
		Value(&value)
	return value, p.run(field)
}

// MultiSelect asks for any subset of options.
func (p *Interactive) MultiSelect(title string, options []Option) ([]string, error) {
	var values []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Options(huhOptions(options)...).
		Value(&values)
	return values, p.run(field)
}

// Confirm asks a yes/no question.
func (p *Interactive) Confirm(title string, defaultYes bool) (bool, error) {
	value := defaultYes
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value)
	return value, p.run(field)
}

// Input asks for free text. validate may be nil.
func (p *Interactive) Input(title, placeholder string, validate func(string) error) (string, error) {
	var value string
	field := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	if err := p.run(field); err != nil {
		return "", err
	}
	if value == "" {
		value = placeholder
	}
	return value, nil
}

// NonInteractive fails every prompt with model.ErrNonInteractive.
type NonInteractive struct{}

func nonInteractive() error {
	return model.NonInteractive("pass the equivalent flags (see --help)")
}

func (NonInteractive) Select(string, []Option) (string, error)        { return "", nonInteractive() }
func (NonInteractive) MultiSelect(string, []Option) ([]string, error) { return nil, nonInteractive() }
func (NonInteractive) Confirm(string, bool) (bool, error)             { return false, nonInteractive() }
func (NonInteractive) Input(string, string, func(string) error) (string, error) {
	return "", nonInteractive()
}

// SelectFuzzy narrows options with a typed query before showing the list.
// Options are ranked by fuzzy.Search on their labels. A single match is
// chosen without asking; no match falls back to the full list.
func SelectFuzzy(p Prompter, title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", errors.New("nothing to select")
	}
	if len(options) == 1 {
		return p.Select(title, options)
	}

	query, err := p.Input(title+" (type to filter, empty for all)", "", nil)
	if err != nil {
		return "", err
	}

	filtered := Filter(query, options)
	if query != "" && len(filtered) == 1 {
		return filtered[0].Value, nil
	}
	return p.Select(title, filtered)
}

// Filter returns the options whose labels fuzzy-match query, best first.
// When nothing matches, all options are returned unchanged.
func Filter(query string, options []Option) []Option {
	labels := make([]string, 0, len(options))
	byLabel := make(map[string][]Option, len(options))
	for _, o := range options {
		if _, seen := byLabel[o.Label]; !seen {
			labels = append(labels, o.Label)
		}
		byLabel[o.Label] = append(byLabel[o.Label], o)
	}

	ranked := fuzzy.Search(query, labels)
	if len(ranked) == 0 {
		return options
	}

	filtered := make([]Option, 0, len(ranked))
	for _, label := range ranked {
		filtered = append(filtered, byLabel[label]...)
	}
	return filtered
}
