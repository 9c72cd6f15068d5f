package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down  key.Binding
	Pane      key.Binding
	Select    key.Binding
	Search    key.Binding
	NewBlock  key.Binding
	AddLink   key.Binding
	AddInfo   key.Binding
	AddFile   key.Binding
	Delete    key.Binding
	Copy      key.Binding
	Save      key.Binding
	Reload    key.Binding
	Quit      key.Binding
	NextTab   key.Binding
	NextBlock key.Binding
	PrevBlock key.Binding
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	NextIcon  key.Binding
	TagLeft   key.Binding
	TagRight  key.Binding
	TagRemove key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Pane:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open block")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NewBlock:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new block")),
		AddLink:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "link")),
		AddInfo:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
		AddFile:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "file")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Copy:      key.NewBinding(key.WithKeys("c", "y"), key.WithHelp("c", "copy")),
		Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save file")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "all/block")),
		NextBlock: key.NewBinding(key.WithKeys("]", "right"), key.WithHelp("]", "next block")),
		PrevBlock: key.NewBinding(key.WithKeys("[", "left"), key.WithHelp("[", "prev block")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add tag / save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		NextIcon:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "icon")),
		TagLeft:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev tag")),
		TagRight:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next tag")),
		TagRemove: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "remove tag")),
	}
}

func helpLine(bs ...key.Binding) string {
	out := ""
	for i, b := range bs {
		if i > 0 {
			out += " • "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}
