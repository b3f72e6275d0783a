package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/display"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

type fixedFlags struct {
	desc      string
	amount    string
	day       int
	direction string
	category  string
	bank      string
	inactive  bool
}

func (f *fixedFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.desc, "desc", "", "description")
	flags.StringVar(&f.amount, "amount", "", "amount, always positive")
	flags.IntVar(&f.day, "day", 1, "day of the month it falls due (1-31)")
	flags.StringVar(&f.direction, "direction", "", "income or expense (default: the category's)")
	flags.StringVar(&f.category, "category", "", "category name or id")
	flags.StringVar(&f.bank, "bank", "", "bank name or id")
	flags.BoolVar(&f.inactive, "inactive", false, "keep the entry but pause it")
}

func (f *fixedFlags) apply(cmd *cobra.Command, a *app, s model.State, e *model.FixedEntry, all bool) error {
	changed := func(name string) bool { return all || cmd.Flags().Changed(name) }
	var err error

	if changed("desc") {
		if e.Description, err = requireText("desc", f.desc); err != nil {
			return err
		}
	}
	if changed("amount") {
		if e.Amount, err = parsePositive("amount", f.amount); err != nil {
			return err
		}
	}
	if changed("day") {
		if f.day < 1 || f.day > 31 {
			return fmt.Errorf("--day must be between 1 and 31, got %d", f.day)
		}
		e.DueDay = f.day
	}
	if changed("bank") {
		ref, err := requireText("bank", f.bank)
		if err != nil {
			return err
		}
		b, err := findBank(s, ref)
		if err != nil {
			return err
		}
		e.BankID = b.ID
	}
	if changed("category") {
		ref, err := requireText("category", f.category)
		if err != nil {
			return err
		}
		c, err := findCategory(s, ref)
		if err != nil {
			return err
		}
		e.CategoryID = c.ID
		if f.direction == "" && all {
			e.Direction = c.Direction
		}
	}
	if f.direction != "" {
		if e.Direction, err = model.ParseDirection(f.direction); err != nil {
			return err
		}
	}
	if changed("inactive") {
		e.Active = !f.inactive
	}

	if c, ok := s.Category(e.CategoryID); ok {
		checkDirection(a.logger, c, e.Direction)
	}
	return nil
}

func newFixedCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixed",
		Short: "Manage recurring monthly entries",
		Long: `Fixed entries are templates for bills and income that repeat every
month. They do not touch bank balances until materialized as transactions.`,
	}
	cmd.AddCommand(newFixedAddCommand(a), newFixedListCommand(a), newFixedEditCommand(a), newFixedRmCommand(a))
	return cmd
}

func newFixedAddCommand(a *app) *cobra.Command {
	var f fixedFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a fixed entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(st *ledger.Store) error {
				e := model.FixedEntry{ID: id.New()}
				if err := f.apply(cmd, a, st.State(), &e, true); err != nil {
					return err
				}
				st.Dispatch(ledger.AddFixedEntry{Entry: e})
				fmt.Fprintf(cmd.OutOrStdout(), "Added fixed entry %s (%s), due on day %d\n", e.Description, id.Short(e.ID), e.DueDay)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newFixedListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fixed entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(st *ledger.Store) error {
				s := st.State()
				cats := categories.NewService(s.Categories)
				cur := currencyOf(s)

				tbl := display.NewTable(cmd.OutOrStdout(), "ID", "DAY", "DESCRIPTION", "AMOUNT", "CATEGORY", "BANK", "ACTIVE")
				for _, e := range s.FixedEntries {
					bank := display.Muted("?")
					if b, ok := s.Bank(e.BankID); ok {
						bank = b.Name
					}
					tbl.Row(id.Short(e.ID), fmt.Sprint(e.DueDay), e.Description,
						display.Directional(e.Direction, display.Money(e.Amount, cur)),
						cats.NameOf(e.CategoryID), bank, display.YesNo(e.Active))
				}
				return tbl.Flush()
			})
		},
	}
}

func newFixedEditCommand(a *app) *cobra.Command {
	var f fixedFlags
	cmd := &cobra.Command{
		Use:   "edit <entry>",
		Short: "Change a fixed entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *ledger.Store) error {
				s := st.State()
				e, err := findFixedEntry(s, args[0])
				if err != nil {
					return err
				}
				if err := f.apply(cmd, a, s, &e, false); err != nil {
					return err
				}
				st.Dispatch(ledger.UpdateFixedEntry{Entry: e})
				fmt.Fprintf(cmd.OutOrStdout(), "Updated fixed entry %s\n", e.Description)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newFixedRmCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <entry>",
		Short: "Delete a fixed entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *ledger.Store) error {
				e, err := findFixedEntry(st.State(), args[0])
				if err != nil {
					return err
				}
				st.Dispatch(ledger.DeleteFixedEntry{ID: e.ID})
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted fixed entry %s\n", e.Description)
				return nil
			})
		},
	}
}
