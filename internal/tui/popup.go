package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/quicklinks/internal/clip"
	"github.com/idilsaglam/quicklinks/internal/draft"
	"github.com/idilsaglam/quicklinks/internal/ingest"
	"github.com/idilsaglam/quicklinks/internal/model"
	"github.com/idilsaglam/quicklinks/internal/store"
	"github.com/idilsaglam/quicklinks/internal/ui"
)

// Options wires a surface to its Store and collaborators.
type Options struct {
	Store *store.Store
	// Events, when set, is a Store subscription; each event refreshes the view.
	Events  <-chan store.Event
	Reader  ingest.Reader
	Copy    func(model.Item) error
	SaveDir string
	Theme   string
	Log     *logrus.Entry
}

func (o *Options) defaults() {
	if o.Copy == nil {
		o.Copy = clip.Copy
	}
	if o.SaveDir == "" {
		o.SaveDir = "."
	}
	if o.Log == nil {
		o.Log = logrus.NewEntry(logrus.StandardLogger())
	}
}

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeNewBlock
	modeForm
)

type pane int

const (
	paneBlocks pane = iota
	paneItems
)

// Popup is the full editor: blocks on the left, the active block's items
// on the right, with forms for new blocks and items.
type Popup struct {
	ctx  context.Context
	opt  Options
	keys keyMap
	st   styles

	blocks      []model.Block
	blockCursor int
	items       list.Model
	focus       pane

	mode   mode
	search textinput.Model
	query  string

	blockName textinput.Model
	blockIcon int

	form form
	link *draft.Link
	info *draft.Info
	file *draft.File

	pending int
	status  status

	width, height int
}

func NewPopup(ctx context.Context, opt Options) Popup {
	opt.defaults()
	st := newStyles(opt.Theme)

	l := list.New(nil, itemDelegate{st: st}, 56, 18)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = st.title
	l.Styles.PaginationStyle = st.help
	l.SetStatusBarItemName("item", "items")
	l.DisableQuitKeybindings()

	search := newInput("Search items...", 200)
	search.Prompt = "/ "

	m := Popup{
		ctx:       ctx,
		opt:       opt,
		keys:      defaultKeys(),
		st:        st,
		items:     l,
		focus:     paneItems,
		search:    search,
		blockName: newInput("Block name...", 100),
		link:      &draft.Link{},
		info:      &draft.Info{},
		file:      &draft.File{},
		width:     80,
		height:    24,
	}
	m.refresh()
	m.blockCursor = m.activeIndex()
	if m.blockCursor < 0 {
		m.blockCursor = 0
	}
	return m
}

func (m *Popup) activeIndex() int {
	active := m.opt.Store.ActiveBlockID()
	for i, b := range m.blocks {
		if b.ID == active {
			return i
		}
	}
	return -1
}

// refresh rebuilds the view state from the Store.
func (m *Popup) refresh() {
	m.blocks = m.opt.Store.Blocks()
	if m.blockCursor >= len(m.blocks) {
		m.blockCursor = len(m.blocks) - 1
	}
	if m.blockCursor < 0 {
		m.blockCursor = 0
	}
	m.items.Title = "No block selected"
	if blk, ok := m.opt.Store.ActiveBlock(); ok {
		m.items.Title = ui.Glyph(blk.Icon) + " " + blk.Name
	}
	m.items.SetItems(toListItems(m.opt.Store.Items(store.ScopeActive, m.query)))
}

func (m Popup) selectedItem() (model.Item, bool) {
	li, ok := m.items.SelectedItem().(listItem)
	if !ok {
		return nil, false
	}
	return li.item, true
}

func (m Popup) Init() tea.Cmd { return waitEvent(m.opt.Events) }

func (m Popup) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.items.SetSize(max(20, m.width-32), max(5, m.height-8))
		return m, nil

	case storeEventMsg:
		if !msg.ok {
			return m, nil
		}
		m.refresh()
		return m, waitEvent(m.opt.Events)

	case clearStatusMsg:
		m.status.clear(msg)
		return m, nil

	case ingestDoneMsg:
		return m.finishIngest(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeNewBlock:
			return m.updateNewBlock(msg)
		case modeForm:
			return m.updateForm(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Popup) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Pane):
		if m.focus == paneBlocks {
			m.focus = paneItems
		} else {
			m.focus = paneBlocks
		}
		return m, nil
	case key.Matches(msg, k.Search):
		m.mode = modeSearch
		m.search.Focus()
		return m, textinput.Blink
	case key.Matches(msg, k.NewBlock):
		m.mode = modeNewBlock
		m.blockName.SetValue("")
		m.blockIcon = 0
		m.blockName.Focus()
		return m, textinput.Blink
	case key.Matches(msg, k.AddLink):
		return m.openForm(model.KindLink)
	case key.Matches(msg, k.AddInfo):
		return m.openForm(model.KindInfo)
	case key.Matches(msg, k.AddFile):
		return m.openForm(model.KindFile)
	case key.Matches(msg, k.Reload):
		if err := m.opt.Store.Reload(m.ctx); err != nil {
			return m.flash("reload: "+err.Error(), true)
		}
		m.refresh()
		return m.flash("Reloaded", false)
	}

	if m.focus == paneBlocks {
		switch {
		case key.Matches(msg, k.Up):
			if m.blockCursor > 0 {
				m.blockCursor--
			}
		case key.Matches(msg, k.Down):
			if m.blockCursor < len(m.blocks)-1 {
				m.blockCursor++
			}
		case key.Matches(msg, k.Select):
			return m.selectBlock()
		case key.Matches(msg, k.Delete):
			return m.deleteBlock()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Delete):
		return m.deleteItem()
	case key.Matches(msg, k.Copy):
		return m.copyItem()
	case key.Matches(msg, k.Save):
		return m.saveItem()
	}
	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)
	return m, cmd
}

func (m Popup) selectBlock() (tea.Model, tea.Cmd) {
	if m.blockCursor >= len(m.blocks) {
		return m, nil
	}
	b := m.blocks[m.blockCursor]
	_, err := m.opt.Store.SetActiveBlock(m.ctx, b.ID)
	m.refresh()
	m.items.Select(0)
	m.focus = paneItems
	if err != nil {
		return m.persistFailed("select block", err)
	}
	return m, nil
}

func (m Popup) deleteBlock() (tea.Model, tea.Cmd) {
	if m.blockCursor >= len(m.blocks) {
		return m, nil
	}
	b := m.blocks[m.blockCursor]
	res, err := m.opt.Store.DeleteBlock(m.ctx, b.ID)
	m.refresh()
	if err != nil {
		return m.persistFailed("delete block", err)
	}
	if !res.Outcome.OK() {
		return m.flash(res.Outcome.String(), true)
	}
	return m.flash(fmt.Sprintf("Block %q deleted", b.Name), false)
}

func (m Popup) deleteItem() (tea.Model, tea.Cmd) {
	it, ok := m.selectedItem()
	if !ok {
		return m, nil
	}
	res, err := m.opt.Store.DeleteItem(m.ctx, m.opt.Store.ActiveBlockID(), it.ItemID())
	m.refresh()
	if err != nil {
		return m.persistFailed("delete item", err)
	}
	if !res.Outcome.OK() {
		return m.flash(res.Outcome.String(), true)
	}
	return m.flash("Item deleted", false)
}

func (m Popup) copyItem() (tea.Model, tea.Cmd) {
	it, ok := m.selectedItem()
	if !ok {
		return m, nil
	}
	if err := m.opt.Copy(it); err != nil {
		return m.flash(err.Error(), true)
	}
	title, _ := ui.Summary(it)
	return m.flash(title+" copied to clipboard", false)
}

func (m Popup) saveItem() (tea.Model, tea.Cmd) {
	it, ok := m.selectedItem()
	if !ok {
		return m, nil
	}
	f, isFile := it.(model.File)
	if !isFile {
		return m.flash("only files can be saved", true)
	}
	path, err := ingest.WriteFile(m.opt.SaveDir, f.Name, f.DataURL)
	if err != nil {
		return m.flash("save: "+err.Error(), true)
	}
	return m.flash("Saved to "+path, false)
}

// flash shows a transient status line.
func (m Popup) flash(text string, isErr bool) (tea.Model, tea.Cmd) {
	cmd := m.status.set(text, isErr)
	return m, cmd
}

func (m Popup) persistFailed(op string, err error) (tea.Model, tea.Cmd) {
	m.opt.Log.WithError(err).WithField("op", op).Error("write through failed")
	return m.flash(op+": "+err.Error(), true)
}

func (m Popup) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.SetValue("")
		m.query = ""
		m.search.Blur()
		m.mode = modeNormal
		m.refresh()
		return m, nil
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = modeNormal
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.query {
		m.query = q
		m.refresh()
		m.items.Select(0)
	}
	return m, cmd
}

func (m Popup) updateNewBlock(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.blockName.Blur()
		m.mode = modeNormal
		return m, nil
	case key.Matches(msg, m.keys.NextIcon), msg.Type == tea.KeyTab:
		m.blockIcon = (m.blockIcon + 1) % len(model.Icons)
		return m, nil
	case msg.Type == tea.KeyEnter:
		name := m.blockName.Value()
		res, err := m.opt.Store.CreateBlock(m.ctx, name, model.Icons[m.blockIcon])
		if res.Outcome == store.RejectedEmptyName {
			return m.flash("Block name cannot be empty", true)
		}
		m.blockName.Blur()
		m.mode = modeNormal
		m.refresh()
		m.blockCursor = m.activeIndex()
		if err != nil {
			return m.persistFailed("create block", err)
		}
		return m.flash(fmt.Sprintf("Block %q created", strings.TrimSpace(name)), false)
	}
	var cmd tea.Cmd
	m.blockName, cmd = m.blockName.Update(msg)
	return m, cmd
}

func (m Popup) openForm(kind model.Kind) (tea.Model, tea.Cmd) {
	if _, ok := m.opt.Store.ActiveBlock(); !ok {
		return m.flash("Select a block first", true)
	}
	m.form = newForm(kind)
	m.form.fill(m.link, m.info, m.file)
	m.mode = modeForm
	return m, textinput.Blink
}

func (m Popup) tags() *draft.Tags {
	switch m.form.kind {
	case model.KindLink:
		return &m.link.Tags
	case model.KindInfo:
		return &m.info.Tags
	default:
		return &m.file.Tags
	}
}

func (m Popup) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	tags := m.tags()
	tagEmpty := m.form.onTag() && m.form.tagInput().Value() == ""

	switch {
	case key.Matches(msg, k.Cancel):
		m.form.store(m.link, m.info, m.file)
		m.mode = modeNormal
		return m, nil
	case msg.Type == tea.KeyTab, msg.Type == tea.KeyDown:
		m.form.move(1)
		return m, nil
	case msg.Type == tea.KeyShiftTab, msg.Type == tea.KeyUp:
		m.form.move(-1)
		return m, nil
	case tagEmpty && key.Matches(msg, k.TagLeft):
		if m.form.tagSel < 0 {
			m.form.tagSel = len(*tags)
		}
		if m.form.tagSel > 0 {
			m.form.tagSel--
		}
		return m, nil
	case tagEmpty && key.Matches(msg, k.TagRight):
		if m.form.tagSel >= 0 && m.form.tagSel < len(*tags)-1 {
			m.form.tagSel++
		}
		return m, nil
	case tagEmpty && key.Matches(msg, k.TagRemove):
		i := m.form.tagSel
		if i < 0 {
			i = len(*tags) - 1
		}
		tags.Remove(i)
		m.form.tagSel = -1
		return m, nil
	case msg.Type == tea.KeyEnter:
		if m.form.onTag() && !tagEmpty {
			tags.Add(m.form.tagInput().Value())
			m.form.tagInput().SetValue("")
			m.form.tagSel = -1
			return m, nil
		}
		m.form.store(m.link, m.info, m.file)
		return m.submit()
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m Popup) submit() (tea.Model, tea.Cmd) {
	var (
		res store.Result
		err error
	)
	switch m.form.kind {
	case model.KindLink:
		res, err = m.link.Commit(m.ctx, m.opt.Store)
	case model.KindInfo:
		res, err = m.info.Commit(m.ctx, m.opt.Store)
	case model.KindFile:
		return m.startIngest()
	}
	if !res.Outcome.OK() {
		return m.flash(res.Outcome.String(), true)
	}
	m.mode = modeNormal
	m.refresh()
	if n := len(m.items.Items()); n > 0 {
		m.items.Select(n - 1)
	}
	if err != nil {
		return m.persistFailed("add "+string(m.form.kind), err)
	}
	return m.flash(ui.KindLabel(m.form.kind)+" added", false)
}

func (m Popup) startIngest() (tea.Model, tea.Cmd) {
	path := m.form.path()
	if path == "" {
		return m.flash("Path cannot be empty", true)
	}
	snapshot := *m.file
	snapshot.Tags = draft.Tags(m.file.List())
	m.pending++
	m.mode = modeNormal
	m.opt.Log.WithField("path", path).Debug("reading file")
	m.status.show("Reading " + path + "...")
	return m, ingestCmd(m.ctx, m.opt.Reader, path, snapshot)
}

func (m Popup) finishIngest(msg ingestDoneMsg) (tea.Model, tea.Cmd) {
	m.pending--
	c := msg.completion
	if c.Err != nil {
		text := "read file: " + c.Err.Error()
		if errors.Is(c.Err, ingest.ErrTooLarge) {
			text = "File is too large"
		}
		return m.flash(text, true)
	}
	d := msg.draft
	d.Attach(c.Upload)
	res, err := d.Commit(m.ctx, m.opt.Store)
	if !res.Outcome.OK() {
		return m.flash(res.Outcome.String(), true)
	}
	if sameDraft(*m.file, msg.draft) {
		m.file.Reset()
	}
	m.refresh()
	if err != nil {
		return m.persistFailed("add file", err)
	}
	return m.flash(c.Upload.Name+" added", false)
}

// sameDraft reports whether the live draft is still the one an upload
// was started from, i.e. nothing was typed since.
func sameDraft(a, b draft.File) bool {
	return a.Name == b.Name && a.FileType == b.FileType && a.DataURL == b.DataURL &&
		a.Description == b.Description && slices.Equal(a.Tags, b.Tags)
}

func (m Popup) blocksView() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("Blocks") + "\n")
	if len(m.blocks) == 0 {
		b.WriteString(m.st.muted.Render("no blocks, press n"))
	}
	active := m.opt.Store.ActiveBlockID()
	for i, blk := range m.blocks {
		mark := " "
		if blk.ID == active {
			mark = m.st.success.Render(ui.Current().Active)
		}
		line := fmt.Sprintf("%s %s %s %s", mark, ui.Glyph(blk.Icon), ui.Truncate(blk.Name, 16),
			m.st.muted.Render(fmt.Sprintf("(%d)", len(blk.Items))))
		if i == m.blockCursor && m.focus == paneBlocks {
			line = m.st.selected.Render(line)
		}
		b.WriteString(line)
		if i < len(m.blocks)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Popup) dialogView() string {
	switch m.mode {
	case modeNewBlock:
		icons := make([]string, len(model.Icons))
		for i, ic := range model.Icons {
			s := ui.Glyph(ic) + " " + string(ic)
			if i == m.blockIcon {
				s = m.st.selected.Render(s)
			}
			icons[i] = s
		}
		return m.st.dialog.Render(m.st.title.Render("New block") + "\n" +
			m.blockName.View() + "\n" + strings.Join(icons, "  "))
	case modeForm:
		return m.st.dialog.Render(m.form.view(m.st, *m.tags()))
	}
	return ""
}

func (m Popup) helpView() string {
	k := m.keys
	switch m.mode {
	case modeSearch:
		return helpLine(k.Submit, k.Cancel)
	case modeNewBlock:
		return helpLine(k.NextIcon, k.Submit, k.Cancel)
	case modeForm:
		return helpLine(k.NextField, k.Submit, k.TagRemove, k.Cancel)
	}
	if m.focus == paneBlocks {
		return helpLine(k.Pane, k.Select, k.NewBlock, k.Delete, k.Quit)
	}
	return helpLine(k.Pane, k.Search, k.AddLink, k.AddInfo, k.AddFile, k.Delete, k.Copy, k.Save, k.Quit)
}

func (m Popup) View() string {
	left, right := m.st.pane, m.st.pane
	if m.focus == paneBlocks {
		left = m.st.focused
	} else {
		right = m.st.focused
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		left.Width(26).Render(m.blocksView()),
		right.Render(m.items.View()),
	)

	header := m.st.title.Render("QuickLinks")
	if m.mode == modeSearch || m.query != "" {
		header += "  " + m.search.View()
	}
	if m.pending > 0 {
		header += "  " + m.st.muted.Render(fmt.Sprintf("reading %d file(s)...", m.pending))
	}

	parts := []string{header, body}
	if d := m.dialogView(); d != "" {
		parts = append(parts, d)
	}
	parts = append(parts, m.status.view(m.st), m.st.help.Render(m.helpView()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
