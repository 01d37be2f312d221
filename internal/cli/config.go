package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gwt/internal/config"
	"github.com/shinji-kodama/gwt/internal/editor"
	"github.com/shinji-kodama/gwt/internal/model"
)

// knownEditors maps common editor launchers to display names.
var knownEditors = map[string]string{
	"idea":     "IntelliJ IDEA",
	"webstorm": "WebStorm",
	"pycharm":  "PyCharm",
	"goland":   "GoLand",
	"phpstorm": "PhpStorm",
	"rubymine": "RubyMine",
	"clion":    "CLion",
	"rider":    "Rider",
	"datagrip": "DataGrip",
	"code":     "Visual Studio Code",
	"cursor":   "Cursor",
	"zed":      "Zed",
	"subl":     "Sublime Text",
}

// editorDisplayName returns a readable name for command.
func editorDisplayName(command string) string {
	fields := editor.Fields(command)
	if len(fields) > 0 {
		if name, ok := knownEditors[fields[0]]; ok {
			return fmt.Sprintf("%s (%s)", name, command)
		}
	}
	return command
}

// configShowFlags holds the flag values for config show.
type configShowFlags struct {
	yaml bool
}

// configSetupFlags holds the flag values for config setup.
type configSetupFlags struct {
	editor          string
	command         string
	files           []string
	checkForUpdates bool
}

// NewConfigCommand creates the "config" cobra command and its subcommands.
// Without a subcommand it behaves like "config show".
func NewConfigCommand() *cobra.Command {
	showFlags := &configShowFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the repository configuration",
		Long: `Show or change the gwt configuration stored in <repo>/.gwt/config.

Examples:
  gwt config
  gwt config show --yaml
  gwt config setup
  gwt config setup --editor custom --command code --files .env,.idea
  gwt config set goland`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(showFlags)
		},
	}
	cmd.Flags().BoolVar(&showFlags.yaml, "yaml", false, "Output in YAML format")

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetupCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	flags := &configShowFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(flags)
		},
	}
	cmd.Flags().BoolVar(&flags.yaml, "yaml", false, "Output in YAML format")

	return cmd
}

func newConfigSetupCommand() *cobra.Command {
	flags := &configSetupFlags{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure the editor and the files copied into new worktrees",
		Long: `Configure gwt for this repository.

Without flags an interactive wizard asks for the editor and lets you pick
files from the repository root to copy into new worktrees. With flags the
given fields are changed and the rest is kept.

Examples:
  gwt config setup
  gwt config setup --editor none
  gwt config setup --command "code -n" --files ".env,.env.*,.idea"`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			changed := func(name string) bool { return cmd.Flags().Changed(name) }
			if changed("editor") || changed("command") || changed("files") || changed("check-for-updates") {
				return runConfigSetupFlags(flags, changed)
			}
			return runConfigSetupWizard()
		},
	}

	cmd.Flags().StringVar(&flags.editor, "editor", "", "Editor type: custom or none")
	cmd.Flags().StringVar(&flags.command, "command", "", "Editor command (implies --editor custom)")
	cmd.Flags().StringSliceVar(&flags.files, "files", nil, "Comma-separated files or glob patterns to copy")
	cmd.Flags().BoolVar(&flags.checkForUpdates, "check-for-updates", true, "Check for new gwt releases")

	return cmd
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <editor-command>",
		Short: "Set the editor command",
		Long: `Set the editor launched for new and opened worktrees.

The command is run with the worktree path appended, e.g. "idea", "code -n"
or "/Applications/GoLand.app/Contents/MacOS/goland". Other settings are kept.`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0])
		},
	}
}

// runConfigShow prints the configuration as text, JSON or YAML.
func runConfigShow(flags *configShowFlags) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	cfg, err := config.Load(s.git, s.dir)
	if err != nil {
		return err
	}
	path := config.Path(s.repo.Root)

	switch {
	case IsJSONOutput():
		if cfg == nil {
			printJSON(nil)
			return nil
		}
		data, err := cfg.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(outWriter, string(data))
	case cfg == nil:
		fmt.Fprintln(outWriter, "No configuration found. Run 'gwt config setup'.")
	case flags.yaml:
		data, err := cfg.YAML()
		if err != nil {
			return err
		}
		fmt.Fprint(outWriter, string(data))
	default:
		printConfigText(cfg, path)
	}
	return nil
}

// printConfigText renders cfg for humans.
func printConfigText(cfg *config.Config, path string) {
	fmt.Fprintf(outWriter, "%s %s\n", headerStyle.Render("Config file:  "), path)

	editorLine := string(cfg.Editor.Type)
	if cfg.Editor.Type == model.EditorCustom {
		editorLine = editorDisplayName(cfg.Editor.Command)
	}
	fmt.Fprintf(outWriter, "%s %s\n", headerStyle.Render("Editor:       "), editorLine)

	updates := "enabled"
	if !cfg.ShouldCheckForUpdates() {
		updates = "disabled"
	}
	fmt.Fprintf(outWriter, "%s %s\n", headerStyle.Render("Update checks:"), updates)

	fmt.Fprintln(outWriter, headerStyle.Render("Files to copy:"))
	if len(cfg.FilesToCopy) == 0 {
		fmt.Fprintln(outWriter, mutedStyle.Render("  (none)"))
	}
	for _, f := range cfg.FilesToCopy {
		fmt.Fprintf(outWriter, "  - %s\n", f)
	}
}

// runConfigSetupFlags applies the changed flags on top of the existing
// configuration and saves it.
func runConfigSetupFlags(flags *configSetupFlags, changed func(string) bool) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	cfg, err := loadOrDefault(s)
	if err != nil {
		return err
	}

	if changed("editor") {
		t, err := model.ParseEditorType(flags.editor)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "invalid --editor", err)
		}
		cfg.Editor.Type = t
		if t == model.EditorNone {
			cfg.Editor.Command = ""
		}
	}
	if changed("command") {
		cfg.Editor.Command = strings.TrimSpace(flags.command)
		if !changed("editor") {
			cfg.Editor.Type = model.EditorCustom
		}
	}
	if changed("files") {
		cfg.FilesToCopy = make([]string, 0, len(flags.files))
		for _, f := range flags.files {
			if f = strings.TrimSpace(f); f != "" {
				cfg.FilesToCopy = append(cfg.FilesToCopy, f)
			}
		}
	}
	if changed("check-for-updates") {
		enabled := flags.checkForUpdates
		cfg.CheckForUpdates = &enabled
	}

	return saveConfig(s, cfg)
}

// runConfigSetupWizard runs the interactive setup.
func runConfigSetupWizard() error {
	s, err := openSession()
	if err != nil {
		return err
	}

	existing, err := config.Load(s.git, s.dir)
	if err != nil {
		return err
	}

	cfg, err := runSetupWizard(s, existing)
	if err != nil {
		return requireFlags(err, "pass --editor, --command or --files")
	}
	return saveConfig(s, cfg)
}

// runConfigSet changes only the editor command.
func runConfigSet(command string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	cfg, err := loadOrDefault(s)
	if err != nil {
		return err
	}

	cfg.Editor = config.EditorConfig{Type: model.EditorCustom, Command: strings.TrimSpace(command)}
	return saveConfig(s, cfg)
}

// loadOrDefault returns the existing config or an empty version 2 one.
func loadOrDefault(s *session) (*config.Config, error) {
	cfg, err := config.Load(s.git, s.dir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &config.Config{
			Version:     config.CurrentVersion,
			Editor:      config.EditorConfig{Type: model.EditorNone},
			FilesToCopy: []string{},
		}
	}
	return cfg, nil
}

// saveConfig writes cfg, warns about an editor that cannot be found and
// reports the result.
func saveConfig(s *session, cfg *config.Config) error {
	if err := config.Save(s.git, s.dir, cfg); err != nil {
		return err
	}
	if cfg.Editor.Type == model.EditorCustom && !editor.IsAvailable(cfg.Editor.Command) {
		Warn("editor command %q was not found; gwt will fail to open worktrees until it is installed", cfg.Editor.Command)
	}

	path := config.Path(s.repo.Root)
	if IsJSONOutput() {
		type resultJSON struct {
			Path   string         `json:"path"`
			Config *config.Config `json:"config"`
		}
		saved := config.Migrate(*cfg)
		printJSON(resultJSON{Path: path, Config: &saved})
		return nil
	}

	fmt.Fprintln(outWriter, successStyle.Render("Configuration saved to "+path))
	if cfg.Editor.Type == model.EditorCustom {
		fmt.Fprintf(outWriter, "  Editor: %s\n", editorDisplayName(cfg.Editor.Command))
	}
	return nil
}
