package cmd

import (
	"fmt"

	tomlinventory "github.com/bnema/frontdesk/internal/adapters/inventory/toml"
	"github.com/bnema/frontdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newInventoryCmd(app *app) *cobra.Command {
	inventoryCmd := &cobra.Command{
		Use:   "inventory",
		Short: "Show or create the station and equipment inventory",
	}

	inventoryCmd.AddCommand(newInventoryShowCmd(app), newInventoryInitCmd(app))
	return inventoryCmd
}

func newInventoryShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the inventory the desk would start with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := app.store.Load(cmd.Context())
			if err != nil {
				return err
			}

			data, err := tomlinventory.Encode(inv)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "# %s\n", app.store.Path()); err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newInventoryInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default inventory file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.store.Init(cmd.Context(), domain.DefaultInventory(), force); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", app.store.Path())
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing inventory file")
	return cmd
}
