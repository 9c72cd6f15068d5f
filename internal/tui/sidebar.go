package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/quicklinks/internal/model"
	"github.com/idilsaglam/quicklinks/internal/search"
	"github.com/idilsaglam/quicklinks/internal/store"
	"github.com/idilsaglam/quicklinks/internal/ui"
)

type tab int

const (
	tabAll tab = iota
	tabBlock
)

// Sidebar is the compact read-mostly surface. Its block selection is
// local and never written back to the Store.
type Sidebar struct {
	ctx  context.Context
	opt  Options
	keys keyMap
	st   styles

	tab     tab
	blockID string
	items   list.Model

	searching bool
	search    textinput.Model

	status status
	width  int
}

func NewSidebar(ctx context.Context, opt Options) Sidebar {
	opt.defaults()
	st := newStyles(opt.Theme)

	l := list.New(nil, itemDelegate{st: st, compact: true}, 36, 20)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	s := Sidebar{
		ctx:     ctx,
		opt:     opt,
		keys:    defaultKeys(),
		st:      st,
		tab:     tabAll,
		blockID: opt.Store.ActiveBlockID(),
		items:   l,
		search:  newInput("Search...", 200),
		width:   40,
	}
	s.search.Width = 30
	s.refresh()
	return s
}

// currentBlock resolves the local selection, falling back to the first
// block when it no longer exists.
func (s *Sidebar) currentBlock() (model.Block, bool) {
	if b, ok := s.opt.Store.Block(s.blockID); ok {
		return b, true
	}
	blocks := s.opt.Store.Blocks()
	if len(blocks) == 0 {
		return model.Block{}, false
	}
	s.blockID = blocks[0].ID
	return blocks[0], true
}

func (s *Sidebar) refresh() {
	q := s.search.Value()
	var items []model.Item
	if s.tab == tabAll {
		items = s.opt.Store.Items(store.ScopeAll, q)
	} else if b, ok := s.currentBlock(); ok {
		items = search.Filter(b.Items, q)
	}
	s.items.SetItems(toListItems(items))
}

func (s *Sidebar) cycleBlock(delta int) {
	blocks := s.opt.Store.Blocks()
	if len(blocks) == 0 {
		return
	}
	i := 0
	for j, b := range blocks {
		if b.ID == s.blockID {
			i = j
		}
	}
	i = (i + delta + len(blocks)) % len(blocks)
	s.blockID = blocks[i].ID
}

func (s Sidebar) Init() tea.Cmd { return waitEvent(s.opt.Events) }

func (s Sidebar) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.items.SetSize(max(20, msg.Width-4), max(5, msg.Height-7))
		return s, nil
	case storeEventMsg:
		if !msg.ok {
			return s, nil
		}
		s.refresh()
		return s, waitEvent(s.opt.Events)
	case clearStatusMsg:
		s.status.clear(msg)
		return s, nil
	case tea.KeyMsg:
		if s.searching {
			return s.updateSearch(msg)
		}
		return s.updateNormal(msg)
	}
	return s, nil
}

func (s Sidebar) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := s.keys
	switch {
	case key.Matches(msg, k.Quit), key.Matches(msg, k.Cancel):
		return s, tea.Quit
	case key.Matches(msg, k.NextTab):
		if s.tab == tabAll {
			s.tab = tabBlock
		} else {
			s.tab = tabAll
		}
		s.refresh()
		s.items.Select(0)
		return s, nil
	case s.tab == tabBlock && key.Matches(msg, k.NextBlock):
		s.cycleBlock(1)
		s.refresh()
		s.items.Select(0)
		return s, nil
	case s.tab == tabBlock && key.Matches(msg, k.PrevBlock):
		s.cycleBlock(-1)
		s.refresh()
		s.items.Select(0)
		return s, nil
	case key.Matches(msg, k.Search):
		s.searching = true
		s.search.Focus()
		return s, textinput.Blink
	case key.Matches(msg, k.Reload):
		if err := s.opt.Store.Reload(s.ctx); err != nil {
			cmd := s.status.set("reload: "+err.Error(), true)
			return s, cmd
		}
		s.refresh()
		return s, nil
	case key.Matches(msg, k.Copy), key.Matches(msg, k.Select):
		li, ok := s.items.SelectedItem().(listItem)
		if !ok {
			return s, nil
		}
		if err := s.opt.Copy(li.item); err != nil {
			cmd := s.status.set(err.Error(), true)
			return s, cmd
		}
		cmd := s.status.set("Copied to clipboard!", false)
		return s, cmd
	}
	var cmd tea.Cmd
	s.items, cmd = s.items.Update(msg)
	return s, cmd
}

func (s Sidebar) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		s.search.SetValue("")
		s.search.Blur()
		s.searching = false
		s.refresh()
		return s, nil
	case tea.KeyEnter:
		s.search.Blur()
		s.searching = false
		return s, nil
	}
	before := s.search.Value()
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if s.search.Value() != before {
		s.refresh()
		s.items.Select(0)
	}
	return s, cmd
}

func (s Sidebar) tabsView() string {
	all, blk := " All Items ", " Blocks "
	if s.tab == tabAll {
		all = s.st.selected.Render(all)
	} else {
		blk = s.st.selected.Render(blk)
	}
	return all + " " + blk
}

func (s Sidebar) View() string {
	parts := []string{
		s.st.title.Render("QuickLinks"),
		s.search.View(),
		s.tabsView(),
	}
	if s.tab == tabBlock {
		if b, ok := s.opt.Store.Block(s.blockID); ok {
			parts = append(parts, fmt.Sprintf("%s %s %s", s.st.muted.Render("["),
				ui.Glyph(b.Icon)+" "+b.Name, s.st.muted.Render("]")))
		} else {
			parts = append(parts, s.st.muted.Render("no blocks"))
		}
	}
	if len(s.items.Items()) == 0 {
		parts = append(parts, s.st.muted.Render("No items found"))
	} else {
		parts = append(parts, s.items.View())
	}
	parts = append(parts,
		s.status.view(s.st),
		s.st.help.Render(helpLine(s.keys.NextTab, s.keys.PrevBlock, s.keys.NextBlock, s.keys.Search, s.keys.Copy, s.keys.Quit)),
	)
	return s.st.pane.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
