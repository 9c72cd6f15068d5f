package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/idilsaglam/quicklinks/internal/draft"
	"github.com/idilsaglam/quicklinks/internal/model"
	"github.com/idilsaglam/quicklinks/internal/ui"
)

// form edits one draft. The last input is always the tag input.
type form struct {
	kind   model.Kind
	labels []string
	inputs []textinput.Model
	focus  int
	tagSel int
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 48
	return ti
}

func newForm(kind model.Kind) form {
	var labels []string
	switch kind {
	case model.KindLink:
		labels = []string{"Title", "URL", "Description"}
	case model.KindInfo:
		labels = []string{"Label", "Value"}
	case model.KindFile:
		labels = []string{"Path", "Description"}
	}
	labels = append(labels, "Tag")
	f := form{kind: kind, labels: labels, tagSel: -1}
	for _, l := range labels {
		limit := 200
		if l == "URL" || l == "Path" || l == "Value" {
			limit = 2048
		}
		f.inputs = append(f.inputs, newInput(l+"...", limit))
	}
	f.inputs[0].Focus()
	return f
}

// fill loads a draft's text fields into the inputs.
func (f *form) fill(link *draft.Link, info *draft.Info, file *draft.File) {
	switch f.kind {
	case model.KindLink:
		f.inputs[0].SetValue(link.Title)
		f.inputs[1].SetValue(link.URL)
		f.inputs[2].SetValue(link.Description)
	case model.KindInfo:
		f.inputs[0].SetValue(info.Label)
		f.inputs[1].SetValue(info.Value)
	case model.KindFile:
		f.inputs[1].SetValue(file.Description)
	}
}

// store writes the inputs back into the draft.
func (f form) store(link *draft.Link, info *draft.Info, file *draft.File) {
	switch f.kind {
	case model.KindLink:
		link.Title = f.inputs[0].Value()
		link.URL = f.inputs[1].Value()
		link.Description = f.inputs[2].Value()
	case model.KindInfo:
		info.Label = f.inputs[0].Value()
		info.Value = f.inputs[1].Value()
	case model.KindFile:
		file.Description = f.inputs[1].Value()
	}
}

func (f form) path() string { return strings.TrimSpace(f.inputs[0].Value()) }

func (f form) onTag() bool { return f.focus == len(f.inputs)-1 }

func (f *form) tagInput() *textinput.Model { return &f.inputs[len(f.inputs)-1] }

func (f *form) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f form) view(st styles, tags draft.Tags) string {
	var b strings.Builder
	b.WriteString(st.title.Render("New " + ui.KindLabel(f.kind)))
	b.WriteString("\n")
	for i, in := range f.inputs {
		label := f.labels[i]
		if i == f.focus {
			label = st.accent.Render(label)
		} else {
			label = st.muted.Render(label)
		}
		b.WriteString(label + "\n" + in.View() + "\n")
	}
	if len(tags) > 0 {
		parts := make([]string, len(tags))
		for i, t := range tags {
			s := st.tag.Render("#" + t)
			if i == f.tagSel {
				s = st.selected.Render("#" + t)
			}
			parts[i] = s
		}
		b.WriteString(strings.Join(parts, " "))
	}
	return b.String()
}
