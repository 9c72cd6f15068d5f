// Package tui holds the two interactive surfaces, the popup and the
// sidebar. Each owns an independent Store; live updates arrive through
// Options.Events.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts m on the alternate screen and blocks until it quits or ctx
// is cancelled.
func Run(ctx context.Context, m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
