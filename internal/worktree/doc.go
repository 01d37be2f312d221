// Package worktree provides Git worktree management operations.
//
// This package wraps Git CLI commands (via os/exec) to create, list,
// remove, and inspect Git worktrees, and to list local and remote
// branches. It is the only place in gwt that talks to git.
//
// Every operation takes the directory it should run in explicitly; nothing
// here reads the process working directory. Repo pairs that directory with
// the main worktree root, which anchors the config file and the
// main-worktree guard.
//
// All errors from Git commands are model.CLIError values wrapping
// model.ErrGitCommand, with git's stderr in the message.
package worktree
