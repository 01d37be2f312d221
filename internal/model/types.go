package model

import (
	"errors"
	"fmt"
	"strings"
)

// Worktree is one entry of `git worktree list --porcelain`.
//
// Only complete records (path, HEAD and branch all present) become a
// Worktree, so detached-HEAD and bare entries never appear here.
type Worktree struct {
	// Path is the absolute filesystem path reported by git.
	Path string `json:"path"`

	// Commit is the full SHA the worktree's HEAD points to.
	Commit string `json:"commit"`

	// Branch is the short branch name ("refs/heads/" already stripped).
	Branch string `json:"branch"`
}

// ShortCommit returns the first seven characters of the commit SHA,
// the form shown in list output.
func (w Worktree) ShortCommit() string {
	if len(w.Commit) <= 7 {
		return w.Commit
	}
	return w.Commit[:7]
}

// BranchList holds local and remote-tracking branch names.
type BranchList struct {
	Local  []string `json:"local"`
	Remote []string `json:"remote"`
}

// FileEntry is a candidate for copying into new worktrees. Name is
// relative to the scanned root and always uses forward slashes.
type FileEntry struct {
	Name        string `json:"name"`
	IsDirectory bool   `json:"isDirectory"`
}

// EditorType selects how (or whether) an editor is launched after a
// worktree is created or opened.
type EditorType string

const (
	// EditorCustom runs a user-provided command with the worktree path
	// appended as the last argument.
	EditorCustom EditorType = "custom"

	// EditorNone disables editor launching entirely.
	EditorNone EditorType = "none"
)

// String returns the string representation of EditorType.
func (e EditorType) String() string {
	return string(e)
}

// IsValid checks whether the EditorType value is one of the predefined types.
func (e EditorType) IsValid() bool {
	switch e {
	case EditorCustom, EditorNone:
		return true
	default:
		return false
	}
}

// ParseEditorType converts a string to an EditorType.
// Returns an error if the string does not match any valid type.
func ParseEditorType(s string) (EditorType, error) {
	t := EditorType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid editor type: %q (valid: custom, none)", s)
	}
	return t, nil
}

// ExitCode defines the process exit codes used by the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError is returned for every failure. Callers that need
	// to tell failures apart inspect the error kind, not the exit code.
	ExitGeneralError ExitCode = 1
)

// Error kinds. Every CLIError produced by this module wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrNotInGitRepo         = errors.New("not in a git repository")
	ErrWorktreeNotFound     = errors.New("worktree not found")
	ErrWorktreeExists       = errors.New("worktree already exists")
	ErrMainWorktree         = errors.New("main worktree cannot be deleted")
	ErrEditorNotFound       = errors.New("editor command not found")
	ErrInvalidConfigVersion = errors.New("unsupported config version")
	ErrInvalidFilePattern   = errors.New("invalid file pattern")
	ErrGitCommand           = errors.New("git command failed")
	ErrNonInteractive       = errors.New("interactive input required")
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Kind is one of the Err* sentinels above, or nil for ad-hoc errors.
	Kind error

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *CLIError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError wrapping an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

func kindError(kind error, message string, err error) *CLIError {
	return &CLIError{Code: ExitGeneralError, Kind: kind, Message: message, Err: err}
}

// NotInGitRepo reports that the working directory is outside a repository.
func NotInGitRepo() *CLIError {
	return kindError(ErrNotInGitRepo, "Not in a git repository", nil)
}

// WorktreeNotFound reports that target matched no worktree by path or branch.
func WorktreeNotFound(target string) *CLIError {
	return kindError(ErrWorktreeNotFound, "Worktree not found: "+target, nil)
}

// WorktreeExists reports that the destination path is already taken.
func WorktreeExists(path string) *CLIError {
	return kindError(ErrWorktreeExists, "Worktree already exists at: "+path, nil)
}

// MainWorktree reports an attempt to delete the repository's main worktree.
func MainWorktree(path string) *CLIError {
	return kindError(ErrMainWorktree, "Cannot delete the main worktree: "+path, nil)
}

// EditorNotFound reports that the configured editor command is unavailable.
func EditorNotFound(command string) *CLIError {
	return kindError(ErrEditorNotFound,
		fmt.Sprintf("Editor command not found: %s. Install it or run 'gwt config setup'", command), nil)
}

// InvalidConfigVersion reports a config file written by an unknown schema.
func InvalidConfigVersion(version string) *CLIError {
	return kindError(ErrInvalidConfigVersion, "Unsupported config version: "+version, nil)
}

// InvalidFilePattern reports a filesToCopy entry that does not compile as a glob.
func InvalidFilePattern(pattern string, err error) *CLIError {
	return kindError(ErrInvalidFilePattern, "Invalid file pattern: "+pattern, err)
}

// GitCommandFailed wraps a failed git invocation. stderr is surfaced verbatim.
func GitCommandFailed(args []string, stderr string, err error) *CLIError {
	message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
	if stderr != "" {
		message = fmt.Sprintf("%s: %s", message, stderr)
	}
	return kindError(ErrGitCommand, message, err)
}

// NonInteractive reports that a prompt was needed but no terminal is attached.
// hint tells the user which flag replaces the prompt.
func NonInteractive(hint string) *CLIError {
	return kindError(ErrNonInteractive, "No terminal available for prompts; "+hint, nil)
}
