package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/display"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/report"
)

func newCategoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage transaction categories",
	}
	cmd.AddCommand(newCategoryAddCommand(a), newCategoryListCommand(a), newCategoryEditCommand(a), newCategoryRmCommand(a))
	return cmd
}

func newCategoryAddCommand(a *app) *cobra.Command {
	var direction, color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := requireText("name", args[0])
			if err != nil {
				return err
			}
			d, err := model.ParseDirection(direction)
			if err != nil {
				return err
			}
			c := model.Category{ID: id.New(), Name: name, Direction: d, Color: color}

			return a.withStore(func(st *ledger.Store) error {
				if _, ok := categories.NewService(st.State().Categories).Find(name); ok {
					return fmt.Errorf("category %q already exists", name)
				}
				st.Dispatch(ledger.AddCategory{Category: c})
				fmt.Fprintf(cmd.OutOrStdout(), "Added category %s (%s)\n", c.Name, id.Short(c.ID))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "expense", "income or expense")
	cmd.Flags().StringVar(&color, "color", "#6b7280", "display color")
	return cmd
}

func newCategoryListCommand(a *app) *cobra.Command {
	var direction string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(st *ledger.Store) error {
				svc := categories.NewService(st.State().Categories)
				list := svc.All()
				if direction != "" {
					d, err := model.ParseDirection(direction)
					if err != nil {
						return err
					}
					list = svc.ByDirection(d)
				}

				tbl := display.NewTable(cmd.OutOrStdout(), "ID", "NAME", "DIRECTION", "COLOR")
				for _, c := range list {
					tbl.Row(id.Short(c.ID), c.Name, display.Directional(c.Direction, c.Direction.Label()), c.Color)
				}
				return tbl.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "", "only income or expense categories")
	return cmd
}

func newCategoryEditCommand(a *app) *cobra.Command {
	var name, direction, color string
	cmd := &cobra.Command{
		Use:   "edit <category>",
		Short: "Change a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *ledger.Store) error {
				c, err := findCategory(st.State(), args[0])
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				if flags.Changed("name") {
					if c.Name, err = requireText("name", name); err != nil {
						return err
					}
				}
				if flags.Changed("direction") {
					if c.Direction, err = model.ParseDirection(direction); err != nil {
						return err
					}
				}
				if flags.Changed("color") {
					c.Color = color
				}
				st.Dispatch(ledger.UpdateCategory{Category: c})
				fmt.Fprintf(cmd.OutOrStdout(), "Updated category %s\n", c.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&direction, "direction", "", "income or expense")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	return cmd
}

func newCategoryRmCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <category>",
		Short: "Delete a category with its transactions and fixed entries",
		Long: `Delete a category. Transactions in the category are deleted too and
their effect on bank balances is reverted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *ledger.Store) error {
				s := st.State()
				c, err := findCategory(s, args[0])
				if err != nil {
					return err
				}
				n := len(report.Filter{CategoryIDs: []string{c.ID}}.Apply(s.Transactions))
				st.Dispatch(ledger.DeleteCategory{ID: c.ID})
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s and %d transactions\n", c.Name, n)
				return nil
			})
		},
	}
}
