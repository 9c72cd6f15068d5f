package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/quicklinks/internal/clip"
	"github.com/idilsaglam/quicklinks/internal/draft"
	"github.com/idilsaglam/quicklinks/internal/ingest"
	"github.com/idilsaglam/quicklinks/internal/model"
	"github.com/idilsaglam/quicklinks/internal/search"
	"github.com/idilsaglam/quicklinks/internal/store"
	"github.com/idilsaglam/quicklinks/internal/ui"
)

const indexHint = "Hint: run `quicklinks ls` to see valid indexes"

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the active block",
	}
	cmd.AddCommand(newAddLinkCmd(a), newAddInfoCmd(a), newAddFileCmd(a))
	return cmd
}

func newAddLinkCmd(a *app) *cobra.Command {
	var d draft.Link
	var tags []string
	cmd := &cobra.Command{
		Use:   "link <title> <url>",
		Short: "Add a link",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			d.Title, d.URL = args[0], args[1]
			addTags(&d.Tags, tags)
			return commitDraft(cmd, "add link", func() (store.Result, error) { return d.Commit(cmd.Context(), s) })
		},
	}
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "tag (repeatable)")
	cmd.Flags().StringVarP(&d.Description, "description", "d", "", "description")
	return cmd
}

func newAddInfoCmd(a *app) *cobra.Command {
	var d draft.Info
	var tags []string
	cmd := &cobra.Command{
		Use:   "info <label> <value>",
		Short: "Add a label/value snippet",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			d.Label, d.Value = args[0], args[1]
			addTags(&d.Tags, tags)
			return commitDraft(cmd, "add info", func() (store.Result, error) { return d.Commit(cmd.Context(), s) })
		},
	}
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "tag (repeatable)")
	return cmd
}

func newAddFileCmd(a *app) *cobra.Command {
	var d draft.File
	var tags []string
	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Add a file, stored inline as a data URL",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openStore(ctx, "cli")
			if err != nil {
				return err
			}

			var done ingest.Completion
			select {
			case done = <-a.reader().Start(ctx, args[0]):
			case <-ctx.Done():
				return ctx.Err()
			}
			if errors.Is(done.Err, ingest.ErrTooLarge) {
				return errUsage("add file: %v", done.Err)
			}
			if done.Err != nil {
				return fmt.Errorf("add file: %w", done.Err)
			}

			addTags(&d.Tags, tags)
			d.Attach(done.Upload)
			return commitDraft(cmd, "add file", func() (store.Result, error) { return d.Commit(ctx, s) })
		},
	}
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "tag (repeatable)")
	cmd.Flags().StringVarP(&d.Description, "description", "d", "", "description")
	return cmd
}

// addTags feeds --tag values through the draft's tag editor unchanged,
// so only empty tags are dropped.
func addTags(t *draft.Tags, tags []string) {
	for _, tag := range tags {
		t.Add(tag)
	}
}

func commitDraft(cmd *cobra.Command, op string, commit func() (store.Result, error)) error {
	res, err := commit()
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if !res.Outcome.OK() {
		if res.Outcome == store.RejectedNoActiveBlock {
			return errUsageHint("Hint: select one with `quicklinks block use <id>`", "%s: %s", op, res.Outcome)
		}
		return errRejected(op, res)
	}
	ui.OK("added " + res.ID)
	return nil
}

// itemView is the json/yaml shape of one listed item. Index is the
// item's 1-based position in its block.
type itemView struct {
	ID     string   `json:"id" yaml:"id"`
	Type   string   `json:"type" yaml:"type"`
	Block  string   `json:"block" yaml:"block"`
	Index  int      `json:"index" yaml:"index"`
	Title  string   `json:"title" yaml:"title"`
	Detail string   `json:"detail,omitempty" yaml:"detail,omitempty"`
	Tags   []string `json:"tags" yaml:"tags"`
}

type listing struct {
	block model.Block
	items []model.Item
}

func newListCmd(a *app) *cobra.Command {
	var all bool
	var output string
	cmd := &cobra.Command{
		Use:     "ls [query...]",
		Aliases: []string{"list"},
		Short:   "List items of the active block, or of every block with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" && output != "yaml" {
				return errUsage("ls: unknown output format %q (want text, json or yaml)", output)
			}
			s, err := a.openStore(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")

			var groups []listing
			if all {
				for _, b := range s.Blocks() {
					groups = append(groups, listing{b, search.Filter(b.Items, query)})
				}
			} else if b, ok := s.ActiveBlock(); ok {
				groups = append(groups, listing{b, search.Filter(b.Items, query)})
			}

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(views(groups))
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(views(groups)); err != nil {
					return err
				}
				return enc.Close()
			}
			printListing(groups, query, all)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "search every block")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func views(groups []listing) []itemView {
	out := []itemView{}
	for _, g := range groups {
		for _, it := range g.items {
			title, detail := ui.Summary(it)
			out = append(out, itemView{
				ID:     it.ItemID(),
				Type:   string(it.Kind()),
				Block:  g.block.ID,
				Index:  g.block.IndexOf(it.ItemID()) + 1,
				Title:  title,
				Detail: detail,
				Tags:   model.CopyTags(it.ItemTags()),
			})
		}
	}
	return out
}

func printListing(groups []listing, query string, all bool) {
	th := ui.Current()
	if len(groups) == 0 {
		ui.Panel([]string{
			ui.C(th.Title, "QuickLinks"),
			"",
			ui.C(th.Muted, "No active block. Select one with `quicklinks block use <id>`"),
		})
		return
	}

	found := 0
	var body []string
	for _, g := range groups {
		if all {
			if len(g.items) == 0 {
				continue
			}
			body = append(body, ui.C(th.Accent, th.Glyph(g.block.Icon)+" "+g.block.Name))
		}
		for _, it := range g.items {
			body = append(body, ui.ItemLine(g.block.IndexOf(it.ItemID())+1, it, 48))
		}
		found += len(g.items)
	}

	header := ui.C(th.Title, "QuickLinks")
	if !all {
		header += "  " + ui.C(th.Accent, th.Glyph(groups[0].block.Icon)+" "+groups[0].block.Name)
	}
	header += fmt.Sprintf("  %s %d", ui.C(th.Muted, "Items"), found)
	if query != "" {
		header += "  " + ui.C(th.Muted, "matching ") + strconv.Quote(query)
	}

	lines := []string{header, ""}
	if found == 0 {
		lines = append(lines, ui.C(th.Muted, "No items found"))
	} else {
		lines = append(lines, body...)
	}
	lines = append(lines, "", ui.C(th.Muted, "Tip: add with `quicklinks add link <title> <url>`"))
	ui.Panel(lines)
}

// resolveItem accepts an item id, or a 1-based index into the active block.
func resolveItem(s *store.Store, op, ref string) (model.Item, string, error) {
	if it, blockID, ok := s.FindItem(ref); ok {
		return it, blockID, nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return nil, "", errUsageHint(indexHint, "%s: no item %q", op, ref)
	}
	b, ok := s.ActiveBlock()
	if !ok {
		return nil, "", errUsageHint("Hint: select one with `quicklinks block use <id>`", "%s: no active block", op)
	}
	if n < 1 || n > len(b.Items) {
		return nil, "", errUsageHint(indexHint, "%s: index out of range: have %d, got %d", op, len(b.Items), n)
	}
	return b.Items[n-1], b.ID, nil
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <item>",
		Short: "Delete an item by id or by index in the active block",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			it, blockID, err := resolveItem(s, "rm", args[0])
			if err != nil {
				return err
			}
			res, err := s.DeleteItem(cmd.Context(), blockID, it.ItemID())
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
			if !res.Outcome.OK() {
				return errRejected("rm", res)
			}
			ui.OK("removed " + it.ItemID())
			return nil
		},
	}
}

func newCopyCmd(a *app) *cobra.Command {
	var printValue bool
	cmd := &cobra.Command{
		Use:   "copy <item>",
		Short: "Copy an item's URL, value or data URL to the clipboard",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			it, _, err := resolveItem(s, "copy", args[0])
			if err != nil {
				return err
			}
			if printValue {
				fmt.Fprintln(cmd.OutOrStdout(), clip.Value(it))
				return nil
			}
			if err := a.copy(it); err != nil {
				return err
			}
			ui.OK("Copied to clipboard!")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&printValue, "print", "p", false, "print the value instead of copying it")
	return cmd
}

func newSaveCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "save <item>",
		Short: "Write a file item back to disk",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			it, _, err := resolveItem(s, "save", args[0])
			if err != nil {
				return err
			}
			f, ok := it.(model.File)
			if !ok {
				return errUsage("save: %s is a %s, not a file", it.ItemID(), it.Kind())
			}
			path, err := ingest.WriteFile(dir, f.Name, f.DataURL)
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
			ui.OK("saved " + path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write into")
	return cmd
}
