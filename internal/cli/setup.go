package cli

import (
	"errors"
	"strings"

	"github.com/shinji-kodama/gwt/internal/config"
	"github.com/shinji-kodama/gwt/internal/editor"
	"github.com/shinji-kodama/gwt/internal/filecopy"
	"github.com/shinji-kodama/gwt/internal/model"
	"github.com/shinji-kodama/gwt/internal/prompt"
)

// runSetupWizard asks for the editor and the files to copy. Values from
// existing, when given, are offered as defaults. The result is not saved.
func runSetupWizard(s *session, existing *config.Config) (*config.Config, error) {
	cfg := &config.Config{
		Version:     config.CurrentVersion,
		Editor:      config.EditorConfig{Type: model.EditorNone},
		FilesToCopy: []string{},
	}
	if existing != nil {
		cfg.CheckForUpdates = existing.CheckForUpdates
	}

	// Step 1: Editor.
	editorType, err := s.prompter.Select("Which editor should gwt open worktrees in?", []prompt.Option{
		{Label: "A command (idea, code, cursor, ...)", Value: string(model.EditorCustom)},
		{Label: "None, just print the path", Value: string(model.EditorNone)},
	})
	if err != nil {
		return nil, err
	}
	cfg.Editor.Type = model.EditorType(editorType)

	if cfg.Editor.Type == model.EditorCustom {
		placeholder := "code"
		if existing != nil && existing.Editor.Command != "" {
			placeholder = existing.Editor.Command
		}
		command, err := s.prompter.Input("Editor command (the worktree path is appended)", placeholder, nil)
		if err != nil {
			return nil, err
		}
		cfg.Editor.Command = strings.TrimSpace(command)
		if !editor.IsAvailable(cfg.Editor.Command) {
			Warn("%q was not found on PATH", cfg.Editor.Command)
		}
	}

	// Step 2: Files from the repository root.
	entries := filecopy.Discover(s.repo.Dir, 1)
	if len(entries) > 0 {
		options := make([]prompt.Option, 0, len(entries))
		for _, e := range entries {
			label := e.Name
			if e.IsDirectory {
				label += "/"
			}
			options = append(options, prompt.Option{Label: label, Value: e.Name})
		}
		picked, err := s.prompter.MultiSelect("Files to copy into new worktrees", options)
		if err != nil {
			return nil, err
		}
		cfg.FilesToCopy = append(cfg.FilesToCopy, picked...)
	}

	// Step 3: Extra glob patterns.
	extra, err := s.prompter.Input("Additional patterns, comma-separated (e.g. .env.*, config/*.local)", "", validatePatternList)
	if err != nil {
		return nil, err
	}
	cfg.FilesToCopy = append(cfg.FilesToCopy, splitPatterns(extra)...)

	return cfg, nil
}

// validatePatternList checks every comma-separated entry of v.
func validatePatternList(v string) error {
	var errs []error
	for _, p := range splitPatterns(v) {
		if err := filecopy.ValidatePattern(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func splitPatterns(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
