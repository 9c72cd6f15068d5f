// Package clip copies item values to the system clipboard.
package clip

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/idilsaglam/quicklinks/internal/model"
)

// write is swapped out in tests; CI machines have no clipboard.
var write = clipboard.WriteAll

// Value is what copying an item puts on the clipboard: a link's URL, an
// info's value or a file's data URL.
func Value(it model.Item) string {
	return model.Match(it,
		func(l model.Link) string { return l.URL },
		func(i model.Info) string { return i.Value },
		func(f model.File) string { return f.DataURL },
	)
}

// Copy puts Value(it) on the clipboard.
func Copy(it model.Item) error {
	if clipboard.Unsupported {
		return fmt.Errorf("copy: no clipboard utility found")
	}
	if err := write(Value(it)); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}
