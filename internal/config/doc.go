// Package config reads and writes the repository-local gwt configuration
// stored at <repo-root>/.gwt/config.
//
// Two schema versions exist. Version 1 only named an IDE command; version 2
// describes the editor, the files to copy into new worktrees and the
// update-check preference. Decode returns a Document, a closed union of
// V1 and Config, and Migrate lifts any Document to the current Config as a
// new value. Only version 2 is ever written.
//
// Files are parsed with github.com/tidwall/jsonc so hand-edited configs
// with comments or trailing commas still load.
package config
