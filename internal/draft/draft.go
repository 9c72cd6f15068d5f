// Package draft holds items that are being composed but not yet added to
// a block. Each draft owns a tag list edited with Add and Remove; Commit
// hands the draft to the Store and clears it once the Store accepts it.
package draft

import (
	"context"

	"github.com/idilsaglam/quicklinks/internal/ingest"
	"github.com/idilsaglam/quicklinks/internal/store"
)

// Tags is a draft's ordered tag list. Duplicates are allowed.
type Tags []string

// Add appends tag. Empty tags are ignored.
func (t *Tags) Add(tag string) bool {
	if tag == "" {
		return false
	}
	*t = append(*t, tag)
	return true
}

// Remove deletes the tag at index i. Out of range indexes are ignored.
func (t *Tags) Remove(i int) bool {
	if i < 0 || i >= len(*t) {
		return false
	}
	*t = append((*t)[:i:i], (*t)[i+1:]...)
	return true
}

// List returns a copy of the tags.
func (t Tags) List() []string {
	out := make([]string, len(t))
	copy(out, t)
	return out
}

type Link struct {
	Title       string
	URL         string
	Description string
	Tags
}

func (d *Link) Reset() { *d = Link{} }

func (d *Link) Commit(ctx context.Context, s *store.Store) (store.Result, error) {
	res, err := s.AddLink(ctx, d.Title, d.URL, d.Tags.List(), d.Description)
	if res.Outcome.OK() {
		d.Reset()
	}
	return res, err
}

type Info struct {
	Label string
	Value string
	Tags
}

func (d *Info) Reset() { *d = Info{} }

func (d *Info) Commit(ctx context.Context, s *store.Store) (store.Result, error) {
	res, err := s.AddInfo(ctx, d.Label, d.Value, d.Tags.List())
	if res.Outcome.OK() {
		d.Reset()
	}
	return res, err
}

// File collects tags and a description first; the file content arrives
// later through Attach, once ingestion completes.
type File struct {
	Name        string
	FileType    string
	DataURL     string
	Description string
	Tags
}

// Attach fills the file fields from a finished upload.
func (d *File) Attach(up ingest.Upload) {
	d.Name = up.Name
	d.FileType = up.FileType
	d.DataURL = up.DataURL
}

// Attached reports whether content has been attached.
func (d *File) Attached() bool { return d.DataURL != "" }

func (d *File) Reset() { *d = File{} }

func (d *File) Commit(ctx context.Context, s *store.Store) (store.Result, error) {
	res, err := s.AddFile(ctx, d.Name, d.FileType, d.DataURL, d.Tags.List(), d.Description)
	if res.Outcome.OK() {
		d.Reset()
	}
	return res, err
}
