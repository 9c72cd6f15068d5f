package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/quicklinks/internal/draft"
	"github.com/idilsaglam/quicklinks/internal/ingest"
	"github.com/idilsaglam/quicklinks/internal/store"
)

const statusTTL = 2 * time.Second

// storeEventMsg carries a Store notification into the update loop.
type storeEventMsg struct {
	event store.Event
	ok    bool
}

// waitEvent blocks on the subscription until the next event. The model
// re-issues it after each delivery.
func waitEvent(ch <-chan store.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		return storeEventMsg{event: e, ok: ok}
	}
}

// ingestDoneMsg reports a finished file read along with the draft that
// was open when it started.
type ingestDoneMsg struct {
	completion ingest.Completion
	draft      draft.File
}

func ingestCmd(ctx context.Context, r ingest.Reader, path string, d draft.File) tea.Cmd {
	ch := r.Start(ctx, path)
	return func() tea.Msg {
		return ingestDoneMsg{completion: <-ch, draft: d}
	}
}

type clearStatusMsg struct{ seq int }

// status is the transient confirmation line.
type status struct {
	text string
	err  bool
	seq  int
}

func (s *status) set(text string, isErr bool) tea.Cmd {
	s.seq++
	s.text, s.err = text, isErr
	seq := s.seq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// show sets a status that stays until the next one replaces it.
func (s *status) show(text string) {
	s.seq++
	s.text, s.err = text, false
}

func (s *status) clear(msg clearStatusMsg) {
	if msg.seq == s.seq {
		s.text, s.err = "", false
	}
}

func (s status) view(st styles) string {
	if s.text == "" {
		return ""
	}
	if s.err {
		return st.err.Render("✖ " + s.text)
	}
	return st.success.Render("✔ " + s.text)
}
