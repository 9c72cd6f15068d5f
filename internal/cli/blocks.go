package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/quicklinks/internal/model"
	"github.com/idilsaglam/quicklinks/internal/store"
	"github.com/idilsaglam/quicklinks/internal/ui"
)

func newBlocksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "blocks",
		Short: "List blocks",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			blocks := s.Blocks()
			total := 0
			for _, b := range blocks {
				total += len(b.Items)
			}

			th := ui.Current()
			lines := []string{
				fmt.Sprintf("%s  %s %d  %s %d",
					ui.C(th.Title, "QuickLinks"),
					ui.C(th.Accent, "Blocks"), len(blocks),
					ui.C(th.Accent, "Items"), total),
				"",
			}
			active := s.ActiveBlockID()
			for _, b := range blocks {
				lines = append(lines, ui.BlockLine(b, b.ID == active, total))
			}
			if len(blocks) == 0 {
				lines = append(lines, ui.C(th.Muted, "No blocks. Create one with `quicklinks block add <name>`"))
			}
			ui.Panel(lines)
			return nil
		},
	}
}

func newBlockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Create, delete and select blocks",
	}
	cmd.AddCommand(newBlockAddCmd(a), newBlockRemoveCmd(a), newBlockUseCmd(a))
	return cmd
}

func newBlockAddCmd(a *app) *cobra.Command {
	var icon string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a block and make it active",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ic := model.Icon(icon)
			if !ic.Known() {
				return errUsageHint("Icons: "+iconNames(), "block add: unknown icon %q", icon)
			}
			s, err := a.openStore(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			res, err := s.CreateBlock(cmd.Context(), strings.Join(args, " "), ic)
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
			if !res.Outcome.OK() {
				return errRejected("block add", res)
			}
			ui.OK("created block " + res.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&icon, "icon", string(model.IconFolder), "block icon ("+iconNames()+")")
	return cmd
}

func newBlockRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <block-id>",
		Short: "Delete a block and all of its items",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			res, err := s.DeleteBlock(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
			if !res.Outcome.OK() {
				return blockNotFound("block rm", args[0], res)
			}
			ui.OK("removed block " + args[0])
			return nil
		},
	}
}

func newBlockUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <block-id>",
		Short: "Make a block active",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			b, ok := s.Block(args[0])
			if !ok {
				return blockNotFound("block use", args[0], store.Result{Outcome: store.NotFound})
			}
			if _, err := s.SetActiveBlock(cmd.Context(), b.ID); err != nil {
				return fmt.Errorf("save: %w", err)
			}
			ui.OK("active block: " + b.Name)
			return nil
		},
	}
}

func blockNotFound(op, id string, res store.Result) error {
	return errUsageHint("Hint: run `quicklinks blocks` to see block ids", "%s: %s: %s", op, id, res.Outcome)
}

func iconNames() string {
	names := make([]string, len(model.Icons))
	for i, ic := range model.Icons {
		names[i] = string(ic)
	}
	return strings.Join(names, ", ")
}
