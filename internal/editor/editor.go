// Package editor detects and launches the user's editor for a worktree.
//
// Launching is fire-and-forget: the editor is started with its standard
// streams detached, then explicitly released with Detach so gwt never
// waits for it and can exit while the editor keeps running.
package editor

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/shinji-kodama/gwt/internal/config"
	"github.com/shinji-kodama/gwt/internal/model"
)

// SettleDelay is how long Launch pauses after starting the editor so the
// child can finish exec before the parent process exits.
var SettleDelay = 200 * time.Millisecond

// Fields splits a command line into the program and its leading arguments.
func Fields(command string) []string {
	return strings.Fields(command)
}

// IsAvailable reports whether command can be run. Only the first word is
// considered. A word containing a path separator must be an existing
// regular file (relative paths resolve against the working directory);
// anything else is looked up in PATH.
func IsAvailable(command string) bool {
	fields := Fields(command)
	if len(fields) == 0 {
		return false
	}
	program := fields[0]

	if strings.ContainsAny(program, `/\`) {
		abs, err := filepath.Abs(program)
		if err != nil {
			return false
		}
		info, err := os.Stat(abs)
		return err == nil && !info.IsDir()
	}

	_, err := exec.LookPath(program)
	return err == nil
}

// Launch opens path in the configured editor without waiting for it.
//
// Type "none" is a no-op. An empty command is an error, and a command
// that is not available fails with model.ErrEditorNotFound.
func Launch(cfg config.EditorConfig, path string) error {
	if cfg.Type == model.EditorNone {
		return nil
	}
	if strings.TrimSpace(cfg.Command) == "" {
		return model.NewCLIError(model.ExitGeneralError,
			"No editor command configured. Run 'gwt config setup'")
	}
	if !IsAvailable(cfg.Command) {
		return model.EditorNotFound(cfg.Command)
	}

	proc, err := Spawn(cfg.Command, path)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			"failed to launch editor "+cfg.Command, err)
	}
	if err := Detach(proc); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to detach editor", err)
	}

	time.Sleep(SettleDelay)
	return nil
}

// Spawn starts command with path appended as the final argument. The child
// gets no stdin, stdout or stderr and runs in its own session where the
// platform supports it.
func Spawn(command, path string) (*os.Process, error) {
	fields := Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("empty command")
	}

	// #nosec G204: the command comes from the user's own config
	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = detachedAttr()

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd.Process, nil
}

// Detach abandons the child: its resources are released and it is never
// waited on.
func Detach(proc *os.Process) error {
	return proc.Release()
}
