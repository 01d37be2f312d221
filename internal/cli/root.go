// Package cli implements the cobra-based CLI commands for gwt.
//
// Each subcommand (list, create, delete, open, clean, config, upgrade) is
// defined in its own file within this package. This file defines the root
// command that serves as the parent for all subcommands, the in-process
// Run entry point and the shared output helpers.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gwt/internal/model"
	"github.com/shinji-kodama/gwt/internal/prompt"
	"github.com/shinji-kodama/gwt/internal/worktree"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables detailed logging output on stderr.
	verbose bool

	// workDir overrides the directory gwt acts on (-C). Empty means the
	// process working directory.
	workDir string
)

// Streams for the current invocation. Run sets them; they default to the
// process streams so helpers work the same when called directly.
var (
	inReader  io.Reader = os.Stdin
	outWriter io.Writer = os.Stdout
	errWriter io.Writer = os.Stderr
)

// newPrompter builds the Prompter for an invocation. Tests replace it.
var newPrompter = prompt.New

// Version, Commit and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action; it only provides
// help text and global flags.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gwt",
		Short: "Git worktree manager",
		Long: `gwt creates, lists, opens, deletes and cleans git worktrees.

New worktrees are placed next to the repository (<repo>-<branch>), receive
copies of configured untracked files such as .env or .idea, and can be
opened in your editor straight away. Settings live in <repo>/.gwt/config.`,

		// Errors are formatted by Run (text or JSON based on --json).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			notifyUpdate(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "Run as if gwt was started in this directory")

	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewDeleteCommand())
	rootCmd.AddCommand(NewOpenCommand())
	rootCmd.AddCommand(NewCleanCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewUpgradeCommand())

	return rootCmd
}

// Run executes gwt with args (args[0] is the program name) against the
// given streams and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	inReader, outWriter, errWriter = stdin, stdout, stderr

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		return int(printError(err))
	}
	return int(model.ExitSuccess)
}

// printError outputs an error in the appropriate format (JSON or text)
// and returns the exit code it maps to.
func printError(err error) model.ExitCode {
	code := model.ExitGeneralError
	message := err.Error()
	var detail error

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		code = cliErr.Code
		message = cliErr.Message
		detail = cliErr.Err
	}

	if jsonOutput {
		errObj := map[string]interface{}{
			"message": message,
		}
		if detail != nil {
			errObj["detail"] = detail.Error()
		}
		data, _ := json.MarshalIndent(map[string]interface{}{"error": errObj}, "", "  ")
		fmt.Fprintln(errWriter, string(data))
	} else if detail != nil {
		fmt.Fprintf(errWriter, "Error: %s: %v\n", message, detail)
	} else {
		fmt.Fprintf(errWriter, "Error: %s\n", message)
	}

	if code == model.ExitSuccess {
		code = model.ExitGeneralError
	}
	return code
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(errWriter, "[verbose] "+format+"\n", args...)
	}
}

// Warn prints a non-fatal problem to stderr.
func Warn(format string, args ...interface{}) {
	fmt.Fprintln(errWriter, warnStyle.Render("Warning: "+fmt.Sprintf(format, args...)))
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(outWriter, string(data))
}

// session bundles what every repository command needs: the resolved
// working directory, the repository handle, git access and a prompter.
type session struct {
	dir      string
	git      *worktree.Manager
	repo     *worktree.Repo
	prompter prompt.Prompter
}

// workingDir returns the absolute directory gwt acts on.
func workingDir() (string, error) {
	dir := workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "failed to determine working directory", err)
		}
		dir = wd
	}
	return filepath.Abs(dir)
}

// openSession resolves the repository for this invocation, failing with
// model.ErrNotInGitRepo outside one.
func openSession() (*session, error) {
	dir, err := workingDir()
	if err != nil {
		return nil, err
	}

	git := worktree.NewManager()
	repo, err := git.OpenRepo(dir)
	if err != nil {
		return nil, err
	}
	VerboseLog("Repository root: %s (working tree %s)", repo.Root, repo.Dir)

	return &session{
		dir:      dir,
		git:      git,
		repo:     repo,
		prompter: newPrompter(inReader, outWriter),
	}, nil
}

// interactive reports whether prompts can be shown.
func (s *session) interactive() bool {
	_, off := s.prompter.(prompt.NonInteractive)
	return !off
}

// requireFlags replaces a generic non-interactive error with a hint naming
// the flags that make the prompt unnecessary.
func requireFlags(err error, hint string) error {
	if errors.Is(err, model.ErrNonInteractive) {
		return model.NonInteractive(hint)
	}
	return err
}
