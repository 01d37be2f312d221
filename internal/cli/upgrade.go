package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gwt/internal/config"
	"github.com/shinji-kodama/gwt/internal/model"
	"github.com/shinji-kodama/gwt/internal/prompt"
	"github.com/shinji-kodama/gwt/internal/version"
	"github.com/shinji-kodama/gwt/internal/worktree"
)

// updateCheckTimeout bounds the release lookup.
const updateCheckTimeout = 3 * time.Second

// newChecker builds the release checker. Tests point it at a local server.
var newChecker = version.NewChecker

// now is the clock used for the update stamp.
var now = time.Now

// isTerminal gates the automatic update notice on stdout being a terminal.
var isTerminal = prompt.IsTerminal

// NewUpgradeCommand creates the "upgrade" cobra command.
func NewUpgradeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Check for a newer gwt release",
		Long: `Compare this build with the latest published release and print the
command that installs it.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(cmd.Context())
		},
	}
}

// runUpgrade is the main logic function for the upgrade command.
func runUpgrade(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, updateCheckTimeout)
	defer cancel()

	latest, err := newChecker().Latest(ctx)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to check for updates", err)
	}
	info := version.UpdateInfo{
		CurrentVersion:  Version,
		LatestVersion:   latest,
		UpdateAvailable: version.Compare(Version, latest) > 0,
	}
	VerboseLog("Current %s, latest %s", info.CurrentVersion, info.LatestVersion)

	if IsJSONOutput() {
		printJSON(info)
		return nil
	}

	if info.UpdateAvailable {
		fmt.Fprintln(outWriter, version.Notification(info))
		return nil
	}
	fmt.Fprintf(outWriter, "gwt %s is up to date\n", Version)
	return nil
}

// notifyUpdate prints the update notice after a command when stdout is a
// terminal, the repository has a config that allows it and the last check
// is more than a day old. The stamp is touched before the lookup so an
// unreachable endpoint is retried at most once a day. Every failure is
// silent.
func notifyUpdate(cmd *cobra.Command) {
	if jsonOutput || cmd.Name() == "upgrade" || !isTerminal(outWriter) {
		return
	}

	dir, err := workingDir()
	if err != nil {
		return
	}
	git := worktree.NewManager()
	repo, err := git.OpenRepo(dir)
	if err != nil {
		return
	}
	cfg, err := config.Load(git, dir)
	if err != nil || cfg == nil || !cfg.ShouldCheckForUpdates() {
		return
	}

	stamp := config.StampPath(repo.Root)
	if !version.NeedsCheck(stamp, now()) {
		return
	}
	version.Touch(stamp, now())

	ctx, cancel := context.WithTimeout(context.Background(), updateCheckTimeout)
	defer cancel()
	if msg := version.Notification(newChecker().Check(ctx, Version)); msg != "" {
		fmt.Fprintln(errWriter, msg)
	}
}
