package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/quicklinks/internal/config"
	"github.com/idilsaglam/quicklinks/internal/ui"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  usageArgs(cobra.NoArgs),
		// A broken config must not stop us from replacing it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if path == "" {
				path = config.DefaultPath()
			}
			err := config.WriteFile(path, config.Default(), force)
			if errors.Is(err, os.ErrExist) {
				return errUsageHint("Hint: pass --force to overwrite", "config init: %v", err)
			}
			if err != nil {
				return fmt.Errorf("config init: %w", err)
			}
			ui.OK("wrote " + path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			src := a.cfg.File
			if src == "" {
				src = "none, using defaults"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n%s", src, b)
			return nil
		},
	}
}
