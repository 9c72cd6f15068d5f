package cli

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/quicklinks/internal/clip"
	"github.com/idilsaglam/quicklinks/internal/config"
	"github.com/idilsaglam/quicklinks/internal/model"
	"github.com/idilsaglam/quicklinks/internal/ui"
)

// app carries root flags and everything built from them.
type app struct {
	cfgFile    string
	forceColor bool
	noColor    bool

	cfg     config.Config
	logger  *logrus.Logger
	closers []func() error

	copy func(model.Item) error
	// runSurface starts a TUI; swapped in tests.
	runSurface func(cmd *cobra.Command, surface string) error
}

func newApp() *app {
	a := &app{copy: clip.Copy}
	a.runSurface = a.startSurface
	return a
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "quicklinks",
		Short:         "Keep links, info snippets and files in blocks, and find them fast",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Open the popup (default)
  quicklinks

  # Compact sidebar view
  quicklinks sidebar

  # Scriptable commands
  quicklinks add link "Git" https://git.example --tag dev
  quicklinks ls dev --all -o json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSurface(cmd, "popup")
		},
	}
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd)
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errUsage("%v", err)
	})

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/quicklinks/config.yaml)")
	cmd.PersistentFlags().BoolVar(&a.forceColor, "color", false, "force colored output")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newPopupCmd(a))
	cmd.AddCommand(newSidebarCmd(a))
	cmd.AddCommand(newBlocksCmd(a))
	cmd.AddCommand(newBlockCmd(a))
	cmd.AddCommand(newAddCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newRemoveCmd(a))
	cmd.AddCommand(newCopyCmd(a))
	cmd.AddCommand(newSaveCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	return cmd
}

// setup loads config and builds the stderr logger used by plain commands.
// Surfaces swap the logger's output for the log file.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	ui.SetColorForcing(a.forceColor, a.noColor)
	ui.SetTheme(cfg.Theme)

	a.logger = logrus.New()
	a.logger.SetOutput(cmd.ErrOrStderr())
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		a.logger.SetLevel(lvl)
	}
	if f, ok := cmd.ErrOrStderr().(*os.File); !ok || f != os.Stderr {
		a.logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}
	return nil
}

// usageArgs reports positional argument errors with exit code 2.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return errUsageHint("Run `"+cmd.CommandPath()+" --help` for usage.", "%s: %v", cmd.CommandPath(), err)
		}
		return nil
	}
}
