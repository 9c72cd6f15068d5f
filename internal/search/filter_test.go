package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/quicklinks/internal/model"
)

func fixture() []model.Item {
	return []model.Item{
		model.Link{ID: "1", Title: "Git", URL: "https://github.com", Tags: []string{"dev"}},
		model.Link{ID: "2", Title: "Mail", URL: "https://mail.example", Tags: []string{"personal"}},
		model.Info{ID: "3", Label: "Email", Value: "Ada@Example.com", Tags: []string{"Work"}},
		model.File{ID: "4", Name: "Resume.pdf", FileType: "application/pdf", DataURL: "data:application/pdf;base64,AA==", Tags: []string{}, Description: "latest CV"},
		model.Link{ID: "5", Title: "Docs", URL: "https://docs.example", Tags: []string{}, Description: "Developer handbook"},
	}
}

func ids(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ItemID())
	}
	return out
}

func TestFilterEmptyQueryIsIdentity(t *testing.T) {
	items := fixture()
	got := Filter(items, "")
	assert.Equal(t, items, got)
	assert.Equal(t, len(items), len(got))
	if len(got) > 0 {
		assert.Same(t, &items[0], &got[0])
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"tag only matches first", "dev", []string{"1", "5"}},
		{"case-insensitive tag", "work", []string{"3"}},
		{"upper query", "GIT", []string{"1"}},
		{"url", "mail.example", []string{"2"}},
		{"info value", "ada@", []string{"3"}},
		{"info label", "email", []string{"3"}},
		{"file name", "resume", []string{"4"}},
		{"file description", "cv", []string{"4"}},
		{"link description", "handbook", []string{"5"}},
		{"file type is not searched", "application/pdf", []string{}},
		{"data url is not searched", "base64", []string{}},
		{"no trimming", " git", []string{}},
		{"shared substring keeps order", "https", []string{"1", "2", "5"}},
		{"no match", "zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(fixture(), tt.query)))
		})
	}
}

func TestFilterScenario(t *testing.T) {
	items := []model.Item{
		model.Link{ID: "a", Title: "Git", Tags: []string{"dev"}},
		model.Link{ID: "b", Title: "Mail", Tags: []string{"personal"}},
	}
	assert.Equal(t, []string{"a"}, ids(Filter(items, "dev")))
}

func TestFilterUnicodeLowering(t *testing.T) {
	items := []model.Item{model.Info{ID: "1", Label: "ÉCOLE", Value: "x", Tags: []string{}}}
	assert.Len(t, Filter(items, "école"), 1)
	assert.Len(t, Filter(items, "ÉCO"), 1)
}

func TestMatches(t *testing.T) {
	it := model.Info{ID: "1", Label: "Phone", Value: "555", Tags: []string{"Home"}}
	assert.True(t, Matches(it, ""))
	assert.True(t, Matches(it, "HOME"))
	assert.False(t, Matches(it, "office"))
}
