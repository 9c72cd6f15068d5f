package cli

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/quicklinks/internal/logging"
	"github.com/idilsaglam/quicklinks/internal/tui"
)

func newPopupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "popup",
		Short: "Open the popup editor (default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSurface(cmd, "popup")
		},
	}
}

func newSidebarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sidebar",
		Short: "Open the compact sidebar",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSurface(cmd, "sidebar")
		},
	}
}

// surfaceOptions opens the Store for a surface, redirects logging to the
// log file and, when watching is on, follows writes from other surfaces.
func (a *app) surfaceOptions(ctx context.Context, surface string) (tui.Options, error) {
	var out io.Writer = io.Discard
	if a.cfg.DataDir != "" {
		f, err := logging.OpenFile(a.cfg.DataDir)
		if err != nil {
			return tui.Options{}, err
		}
		a.closers = append(a.closers, f.Close)
		out = f
	}
	l, err := logging.New(a.cfg.LogLevel, out)
	if err != nil {
		return tui.Options{}, err
	}
	a.logger = l
	log := a.entry(surface)

	s, err := a.openStore(ctx, surface)
	if err != nil {
		return tui.Options{}, err
	}

	opt := tui.Options{
		Store:   s,
		Reader:  a.reader(),
		Copy:    a.copy,
		SaveDir: ".",
		Theme:   a.cfg.Theme,
		Log:     log,
	}
	if !a.cfg.Watch {
		return opt, nil
	}
	following, err := s.Follow(ctx)
	if err != nil {
		log.WithError(err).Warn("watch store; live updates disabled")
		return opt, nil
	}
	if !following {
		log.Debug("backend cannot be watched")
	}
	events, unsubscribe := s.Subscribe()
	a.closers = append(a.closers, func() error { unsubscribe(); return nil })
	opt.Events = events
	return opt, nil
}

func (a *app) startSurface(cmd *cobra.Command, surface string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opt, err := a.surfaceOptions(ctx, surface)
	if err != nil {
		return err
	}
	opt.Log.Info("surface started")

	var m tea.Model
	if surface == "sidebar" {
		m = tui.NewSidebar(ctx, opt)
	} else {
		m = tui.NewPopup(ctx, opt)
	}
	return tui.Run(ctx, m)
}
