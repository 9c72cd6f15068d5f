package model

// Icon is the symbolic name a renderer turns into a glyph.
type Icon string

const (
	IconFolder    Icon = "folder"
	IconFileText  Icon = "file-text"
	IconLink      Icon = "link"
	IconImage     Icon = "image"
	IconUser      Icon = "user"
	IconBriefcase Icon = "briefcase"
)

// Icons is the set a user can pick from when creating a block.
var Icons = []Icon{IconFolder, IconFileText, IconLink, IconImage}

// Known reports whether i is one of Icons.
func (i Icon) Known() bool {
	for _, k := range Icons {
		if i == k {
			return true
		}
	}
	return false
}

// Normalize degrades anything outside Icons to IconFolder.
func (i Icon) Normalize() Icon {
	if i.Known() {
		return i
	}
	return IconFolder
}

// Block is a named, ordered container of items.
type Block struct {
	ID    string
	Name  string
	Icon  Icon
	Items []Item
}

// Clone deep-copies b.
func (b Block) Clone() Block {
	out := b
	out.Items = make([]Item, len(b.Items))
	for i, it := range b.Items {
		out.Items[i] = Clone(it)
	}
	return out
}

// IndexOf returns the position of the item with the given id, or -1.
func (b Block) IndexOf(itemID string) int {
	for i, it := range b.Items {
		if it.ItemID() == itemID {
			return i
		}
	}
	return -1
}

// DefaultBlocks is the collection seeded on first use.
func DefaultBlocks() []Block {
	return []Block{
		{ID: "personal", Name: "Personal", Icon: IconUser, Items: []Item{}},
		{ID: "professional", Name: "Professional", Icon: IconBriefcase, Items: []Item{}},
		{ID: "documents", Name: "Documents", Icon: IconFileText, Items: []Item{}},
	}
}
