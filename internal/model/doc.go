// Package model defines the domain types and value objects for the gwt CLI.
//
// This package contains pure data structures with no external dependencies.
// Worktree and BranchList are transient views reconstructed from git output
// on every invocation; the only persisted state is the repository-local
// config file owned by internal/config.
//
// The package also defines the error taxonomy (sentinel errors wrapped by
// CLIError) and the exit codes the CLI maps them to.
package model
