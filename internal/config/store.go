package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/gwt/internal/model"
	"github.com/shinji-kodama/gwt/internal/worktree"
)

const (
	// DirName is the per-repository directory holding gwt state.
	DirName = ".gwt"

	// FileName is the config file inside DirName.
	FileName = "config"

	// StampName is the file whose mtime records the last update check.
	StampName = "update-check"
)

// Path returns the config file location for a repository root.
func Path(root string) string {
	return filepath.Join(root, DirName, FileName)
}

// StampPath returns the update-check stamp location for a repository root.
func StampPath(root string) string {
	return filepath.Join(root, DirName, StampName)
}

// Load reads the config of the repository containing dir.
//
// It returns (nil, nil), meaning "no config", when dir is not inside a
// repository, when the file does not exist, or when its contents are not
// valid JSON. Version 1 files are migrated transparently.
func Load(m *worktree.Manager, dir string) (*Config, error) {
	repo, err := m.OpenRepo(dir)
	if err != nil {
		return nil, nil
	}
	return ReadFile(Path(repo.Root))
}

// Save writes cfg as version 2 to the repository containing dir, creating
// the .gwt directory when needed. It fails with model.ErrNotInGitRepo
// outside a repository.
func Save(m *worktree.Manager, dir string, cfg *Config) error {
	repo, err := m.OpenRepo(dir)
	if err != nil {
		return err
	}
	return WriteFile(Path(repo.Root), cfg)
}

// ReadFile loads and migrates a config file. Missing and corrupt files
// yield (nil, nil); an unsupported version is returned as an error.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read config %s", path), err)
	}

	doc, err := Decode(data)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			return nil, nil
		}
		return nil, err
	}

	cfg := Migrate(doc)
	return &cfg, nil
}

// WriteFile validates cfg and writes it as indented version 2 JSON.
func WriteFile(path string, cfg *Config) error {
	out := Migrate(*cfg)
	if err := out.Validate(); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid configuration", err)
	}

	data, err := out.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to create %s", filepath.Dir(path)), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write config %s", path), err)
	}
	return nil
}
