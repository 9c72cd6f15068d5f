package model

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Kind is the discriminator persisted as "type" next to an item's fields.
type Kind string

const (
	KindLink Kind = "link"
	KindInfo Kind = "info"
	KindFile Kind = "file"
)

// Item is one of Link, Info or File. The set is closed: use Match to
// consume an Item so a new variant breaks every caller at compile time.
type Item interface {
	ItemID() string
	ItemTags() []string
	Kind() Kind
	item()
}

// Link is a saved URL.
type Link struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	Description string   `json:"description,omitempty"`
}

// Info is a label/value snippet (email, phone number, address...).
type Info struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Value string   `json:"value"`
	Tags  []string `json:"tags"`
}

// File is an uploaded file kept inline as a data URL.
type File struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	FileType    string   `json:"fileType"`
	DataURL     string   `json:"dataUrl"`
	Tags        []string `json:"tags"`
	Description string   `json:"description,omitempty"`
}

func (l Link) ItemID() string     { return l.ID }
func (l Link) ItemTags() []string { return l.Tags }
func (Link) Kind() Kind           { return KindLink }
func (Link) item()                {}

func (i Info) ItemID() string     { return i.ID }
func (i Info) ItemTags() []string { return i.Tags }
func (Info) Kind() Kind           { return KindInfo }
func (Info) item()                {}

func (f File) ItemID() string     { return f.ID }
func (f File) ItemTags() []string { return f.Tags }
func (File) Kind() Kind           { return KindFile }
func (File) item()                {}

// Match dispatches on the concrete variant of it.
func Match[T any](it Item, link func(Link) T, info func(Info) T, file func(File) T) T {
	switch v := it.(type) {
	case Link:
		return link(v)
	case Info:
		return info(v)
	case File:
		return file(v)
	}
	panic(fmt.Sprintf("model: unhandled item type %T", it))
}

// Clone returns a copy of it that shares no slices with the original.
func Clone(it Item) Item {
	return Match(it,
		func(l Link) Item { l.Tags = CopyTags(l.Tags); return l },
		func(i Info) Item { i.Tags = CopyTags(i.Tags); return i },
		func(f File) Item { f.Tags = CopyTags(f.Tags); return f },
	)
}

// CopyTags copies tags, turning nil into an empty slice so the
// persisted form is always an array.
func CopyTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

var idSeq atomic.Uint64

// NewID returns a time-derived id. The sequence suffix keeps two ids
// minted in the same millisecond apart.
func NewID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixMilli(), idSeq.Add(1))
}
