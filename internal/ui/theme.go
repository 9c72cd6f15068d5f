package ui

import (
	"strings"

	"github.com/idilsaglam/quicklinks/internal/model"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   string
	Tag                                    string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	Active                                 string
	Icons                                  map[model.Icon]string
	Kinds                                  map[model.Kind]string
}

var current = classic()

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Tag: fgYellow,
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		Active: "●",
		Icons: map[model.Icon]string{
			model.IconFolder:   "▤",
			model.IconFileText: "▦",
			model.IconLink:     "⛓",
			model.IconImage:    "▣",
		},
		Kinds: map[model.Kind]string{
			model.KindLink: "↗",
			model.KindInfo: "ℹ",
			model.KindFile: "▦",
		},
	}
}

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		t := classic()
		t.Name = "neon"
		t.Title = "\033[95m" // bright magenta
		t.Accent = "\033[96m"
		t.Tag = fgMagenta
		t.CornerTL, t.CornerTR, t.CornerBL, t.CornerBR = "╭", "╮", "╰", "╯"
		t.Active = "◆"
		current = t
	case "mono":
		disableColor = true
		current = Theme{
			Name:     "mono",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			Active: "*",
			Icons: map[model.Icon]string{
				model.IconFolder:   "[d]",
				model.IconFileText: "[t]",
				model.IconLink:     "[l]",
				model.IconImage:    "[i]",
			},
			Kinds: map[model.Kind]string{
				model.KindLink: "L",
				model.KindInfo: "I",
				model.KindFile: "F",
			},
		}
	default: // classic
		current = classic()
	}
}

// Expose what renderers need
func Current() Theme { return current }

// Glyph renders a block icon. Icons outside the render set, including the
// ones the default blocks use, fall back to the folder glyph.
func (t Theme) Glyph(icon model.Icon) string {
	return t.Icons[icon.Normalize()]
}

func (t Theme) KindSymbol(k model.Kind) string {
	if s, ok := t.Kinds[k]; ok {
		return s
	}
	return "?"
}

func Glyph(icon model.Icon) string { return current.Glyph(icon) }
