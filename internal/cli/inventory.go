package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/LineCut/internal/model"
	"github.com/piwi3910/LineCut/internal/project"
)

// inventoryPath returns path or the default inventory location.
func inventoryPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return project.DefaultInventoryPath()
}

// loadInventory loads the inventory at path, seeding defaults on first use.
func loadInventory(path string) (model.Inventory, error) {
	p, err := inventoryPath(path)
	if err != nil {
		return model.Inventory{}, err
	}
	return project.LoadInventory(p)
}

func newInventoryCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Manage stock presets",
	}
	cmd.PersistentFlags().StringVar(&file, "file", "", "inventory file (default ~/.linecut/inventory.json)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stock presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := loadInventory(file)
			if err != nil {
				return err
			}
			u := a.cfg.CutSettings().Units
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLENGTH\tGROUP\tPRICE")
			for _, s := range inv.Stocks {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", s.Name, u.Format(s.Length), s.Group, s.Price)
			}
			return tw.Flush()
		},
	}

	var group string
	var price float64
	add := &cobra.Command{
		Use:   "add NAME LENGTH",
		Short: "Add a stock preset (length in mm)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			length, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("length %q: %w", args[1], err)
			}
			if err := model.ValidateLengths("length", []float64{length}); err != nil {
				return err
			}
			path, err := inventoryPath(file)
			if err != nil {
				return err
			}
			inv, err := project.LoadInventory(path)
			if err != nil {
				return err
			}
			if inv.FindStockByName(args[0]) != nil {
				return fmt.Errorf("preset %q already exists", args[0])
			}
			inv.Stocks = append(inv.Stocks, model.NewStockPreset(args[0], length, group, price))
			if err := project.SaveInventory(path, inv); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", args[0], model.UnitMillimeter.Format(length))
			return nil
		},
	}
	add.Flags().StringVar(&group, "group", "", "material group")
	add.Flags().Float64Var(&price, "price", 0, "price per bar")

	imp := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge presets from another inventory file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := inventoryPath(file)
			if err != nil {
				return err
			}
			inv, err := project.LoadInventory(path)
			if err != nil {
				return err
			}
			before := len(inv.Stocks)
			inv, err = project.ImportInventory(args[0], inv)
			if err != nil {
				return err
			}
			if err := project.SaveInventory(path, inv); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d presets\n", len(inv.Stocks)-before)
			return nil
		},
	}

	cmd.AddCommand(list, add, imp)
	return cmd
}
