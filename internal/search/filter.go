// Package search implements the case-insensitive substring filter shared
// by every surface.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/idilsaglam/quicklinks/internal/model"
)

// Filter returns the items matching query, in input order. An empty
// query returns items itself.
//
// Fields searched:
//
//	link: title, url, description, tags
//	info: label, value, tags
//	file: name, description, tags
func Filter(items []model.Item, query string) []model.Item {
	if query == "" {
		return items
	}
	m := newMatcher(query)
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if m.match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Matches reports whether a single item matches query.
func Matches(it model.Item, query string) bool {
	if query == "" {
		return true
	}
	return newMatcher(query).match(it)
}

// matcher holds its own Caser; cases.Caser is not safe for concurrent use.
type matcher struct {
	lower cases.Caser
	q     string
}

func newMatcher(query string) *matcher {
	m := &matcher{lower: cases.Lower(language.Und)}
	m.q = m.lower.String(query)
	return m
}

func (m *matcher) contains(s string) bool {
	return s != "" && strings.Contains(m.lower.String(s), m.q)
}

func (m *matcher) anyTag(tags []string) bool {
	for _, t := range tags {
		if m.contains(t) {
			return true
		}
	}
	return false
}

func (m *matcher) match(it model.Item) bool {
	return model.Match(it,
		func(l model.Link) bool {
			return m.contains(l.Title) || m.contains(l.URL) || m.contains(l.Description) || m.anyTag(l.Tags)
		},
		func(i model.Info) bool {
			return m.contains(i.Label) || m.contains(i.Value) || m.anyTag(i.Tags)
		},
		func(f model.File) bool {
			return m.contains(f.Name) || m.contains(f.Description) || m.anyTag(f.Tags)
		},
	)
}
