package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/gwt/internal/filecopy"
	"github.com/shinji-kodama/gwt/internal/model"
)

const (
	// VersionV1 is the legacy single-IDE schema.
	VersionV1 = "1.0"

	// CurrentVersion is the schema written by Save.
	CurrentVersion = "2.0"
)

// ErrCorrupt is returned by Decode when the data is not a JSON object.
var ErrCorrupt = errors.New("config is not valid JSON")

// Document is a decoded config file of any supported version.
// The only implementations are V1 and Config.
type Document interface {
	schemaVersion() string
}

// V1 is the legacy schema: {"version": "1.0", "ide": "<command>"}.
type V1 struct {
	Version string `json:"version"`
	IDE     string `json:"ide"`
}

func (V1) schemaVersion() string { return VersionV1 }

// EditorConfig selects the editor launched for new or opened worktrees.
type EditorConfig struct {
	Type    model.EditorType `json:"type" yaml:"type"`
	Command string           `json:"command,omitempty" yaml:"command,omitempty"`
}

// Config is the current (version 2) schema.
type Config struct {
	Version     string       `json:"version" yaml:"version"`
	Editor      EditorConfig `json:"editor" yaml:"editor"`
	FilesToCopy []string     `json:"filesToCopy" yaml:"filesToCopy"`

	// CheckForUpdates is nil when the user never chose; nil means enabled.
	CheckForUpdates *bool `json:"checkForUpdates,omitempty" yaml:"checkForUpdates,omitempty"`
}

func (Config) schemaVersion() string { return CurrentVersion }

// Decode parses raw config bytes into a Document.
//
// A document carrying both "editor" and "filesToCopy" is version 2;
// anything else is treated as version 1. A "version" other than 1.0 or
// 2.0 is rejected with model.ErrInvalidConfigVersion. Data that is not a
// JSON object, or whose "version" is not a string, yields ErrCorrupt.
func Decode(data []byte) (Document, error) {
	clean := jsonc.ToJSON(data)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(clean, &fields); err != nil || fields == nil {
		return nil, ErrCorrupt
	}

	var version string
	if raw, ok := fields["version"]; ok {
		if err := json.Unmarshal(raw, &version); err != nil {
			return nil, ErrCorrupt
		}
	}
	if version != "" && version != VersionV1 && version != CurrentVersion {
		return nil, model.InvalidConfigVersion(version)
	}

	_, hasEditor := fields["editor"]
	_, hasFiles := fields["filesToCopy"]
	if hasEditor && hasFiles {
		var cfg Config
		if err := json.Unmarshal(clean, &cfg); err != nil {
			return nil, ErrCorrupt
		}
		return cfg, nil
	}

	var v1 V1
	if err := json.Unmarshal(clean, &v1); err != nil {
		return nil, ErrCorrupt
	}
	return v1, nil
}

// Migrate returns doc as a current-version Config. It never modifies doc,
// and migrating a Config again yields an equal value.
//
// A V1 becomes a custom editor running its IDE command with an empty copy
// list; a V1 without an IDE becomes editor type "none".
func Migrate(doc Document) Config {
	switch d := doc.(type) {
	case V1:
		cfg := Config{
			Version:     CurrentVersion,
			Editor:      EditorConfig{Type: model.EditorCustom, Command: d.IDE},
			FilesToCopy: []string{},
		}
		if d.IDE == "" {
			cfg.Editor = EditorConfig{Type: model.EditorNone}
		}
		return cfg
	case Config:
		cfg := d
		cfg.Version = CurrentVersion
		cfg.FilesToCopy = append([]string{}, d.FilesToCopy...)
		if d.CheckForUpdates != nil {
			v := *d.CheckForUpdates
			cfg.CheckForUpdates = &v
		}
		return cfg
	default:
		panic(fmt.Sprintf("config: unknown document type %T", doc))
	}
}

// Validate checks the editor settings and that every filesToCopy entry
// is a usable pattern.
func (c *Config) Validate() error {
	if !c.Editor.Type.IsValid() {
		return fmt.Errorf("invalid editor type: %q (valid: custom, none)", c.Editor.Type)
	}
	if c.Editor.Type == model.EditorCustom && c.Editor.Command == "" {
		return errors.New("editor command must not be empty for a custom editor")
	}
	for _, entry := range c.FilesToCopy {
		if err := filecopy.ValidatePattern(entry); err != nil {
			return err
		}
	}
	return nil
}

// ShouldCheckForUpdates reports whether automatic update checks are enabled.
// A nil config or an unset preference counts as enabled.
func (c *Config) ShouldCheckForUpdates() bool {
	if c == nil || c.CheckForUpdates == nil {
		return true
	}
	return *c.CheckForUpdates
}

// JSON renders the config the way it is stored on disk.
func (c *Config) JSON() ([]byte, error) {
	out := *c
	if out.FilesToCopy == nil {
		out.FilesToCopy = []string{}
	}
	return json.MarshalIndent(out, "", "  ")
}

// YAML renders the config as YAML for `gwt config show --yaml`.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
