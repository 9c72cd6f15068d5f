package ui

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/idilsaglam/quicklinks/internal/model"
)

// KindLabel is the display name of a kind, e.g. "Link".
func KindLabel(k model.Kind) string {
	return cases.Title(language.English).String(string(k))
}

type summary struct{ title, detail string }

// Summary returns the headline and the secondary text shown for an item.
func Summary(it model.Item) (title, detail string) {
	s := model.Match(it,
		func(l model.Link) summary { return summary{l.Title, l.URL} },
		func(i model.Info) summary { return summary{i.Label, i.Value} },
		func(f model.File) summary {
			d := f.FileType
			if f.Description != "" {
				d = f.Description
			}
			return summary{f.Name, d}
		},
	)
	return s.title, s.detail
}

// TagList renders tags as "#a #b", colored with the theme's tag color.
func TagList(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = C(current.Tag, "#"+t)
	}
	return strings.Join(parts, " ")
}

// ItemLine is one row of `quicklinks ls`.
func ItemLine(index int, it model.Item, width int) string {
	title, detail := Summary(it)
	line := fmt.Sprintf("%s %s %s",
		C(dim, fmt.Sprintf("%2d.", index)),
		C(current.Accent, current.KindSymbol(it.Kind())),
		C(current.Title, Truncate(title, width)),
	)
	if detail != "" {
		line += "  " + C(current.Muted, Truncate(detail, width))
	}
	if tags := TagList(it.ItemTags()); tags != "" {
		line += "  " + tags
	}
	return line
}

// BlockLine is one row of `quicklinks blocks`.
func BlockLine(b model.Block, active bool, total int) string {
	mark := " "
	if active {
		mark = C(current.Success, current.Active)
	}
	return fmt.Sprintf("%s %s %-16s %s  %s",
		mark,
		C(current.Accent, current.Glyph(b.Icon)),
		Truncate(b.Name, 16),
		C(current.Muted, ShareBar(len(b.Items), total, 12)),
		C(dim, b.ID),
	)
}
