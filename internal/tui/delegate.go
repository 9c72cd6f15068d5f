package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/quicklinks/internal/model"
	"github.com/idilsaglam/quicklinks/internal/ui"
)

// listItem adapts a model.Item to bubbles/list.Item
type listItem struct {
	item model.Item
}

func (i listItem) Title() string {
	t, _ := ui.Summary(i.item)
	return t
}

func (i listItem) Description() string {
	_, d := ui.Summary(i.item)
	return d
}

// Filtering is done by search.Filter before items reach the list.
func (i listItem) FilterValue() string { return i.Title() }

func toListItems(items []model.Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = listItem{item: it}
	}
	return out
}

// itemDelegate renders one item per row: kind symbol, title, detail, tags.
// compact drops the detail column for the narrow sidebar.
type itemDelegate struct {
	st      styles
	compact bool
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	width := m.Width()
	if width <= 0 {
		width = 80
	}
	sym := ui.Current().KindSymbol(it.item.Kind())
	title, detail := ui.Summary(it.item)

	parts := []string{d.st.accent.Render(sym), ui.Truncate(title, width/2)}
	if !d.compact && detail != "" {
		parts = append(parts, d.st.muted.Render(ui.Truncate(detail, width/3)))
	}
	for _, t := range it.item.ItemTags() {
		parts = append(parts, d.st.tag.Render("#"+t))
	}
	line := strings.Join(parts, " ")

	prefix := "  "
	if index == m.Index() {
		prefix = d.st.selected.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}
