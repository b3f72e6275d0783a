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

type txFlags struct {
	desc      string
	amount    string
	date      string
	direction string
	category  string
	bank      string
	fixed     bool
	monthly   bool
}

func (f *txFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.desc, "desc", "", "description")
	flags.StringVar(&f.amount, "amount", "", "amount, always positive")
	flags.StringVar(&f.date, "date", "", "day of the transaction, YYYY-MM-DD (default today)")
	flags.StringVar(&f.direction, "direction", "", "income or expense (default: the category's)")
	flags.StringVar(&f.category, "category", "", "category name or id")
	flags.StringVar(&f.bank, "bank", "", "bank name or id")
	flags.BoolVar(&f.fixed, "fixed", false, "mark as a fixed transaction")
	flags.BoolVar(&f.monthly, "monthly", false, "repeats monthly")
}

// apply copies the flags the user set onto t, resolving references in s.
// With all set, every field is taken from the flags.
func (f *txFlags) apply(cmd *cobra.Command, a *app, s model.State, t *model.Transaction, all bool) error {
	changed := func(name string) bool { return all || cmd.Flags().Changed(name) }
	var err error

	if changed("desc") {
		if t.Description, err = requireText("desc", f.desc); err != nil {
			return err
		}
	}
	if changed("amount") {
		if t.Amount, err = parsePositive("amount", f.amount); err != nil {
			return err
		}
	}
	if changed("date") {
		t.Date = model.DateOf(a.now())
		if f.date != "" {
			if t.Date, err = model.ParseDate(f.date); err != nil {
				return err
			}
		}
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
		t.BankID = b.ID
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
		t.CategoryID = c.ID
		if f.direction == "" && all {
			t.Direction = c.Direction
		}
	}
	if f.direction != "" {
		if t.Direction, err = model.ParseDirection(f.direction); err != nil {
			return err
		}
	}
	if changed("fixed") {
		t.Fixed = f.fixed
	}
	if changed("monthly") {
		t.RepeatMonthly = f.monthly
	}

	if c, ok := s.Category(t.CategoryID); ok {
		checkDirection(a.logger, c, t.Direction)
	}
	return nil
}

func newTxCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Record and manage transactions",
	}
	cmd.AddCommand(newTxAddCommand(a), newTxListCommand(a), newTxEditCommand(a), newTxRmCommand(a))
	return cmd
}

func newTxAddCommand(a *app) *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction and update its bank balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(st *ledger.Store) error {
				s := st.State()
				t := model.Transaction{ID: id.New()}
				if err := f.apply(cmd, a, s, &t, true); err != nil {
					return err
				}
				next := st.Dispatch(ledger.AddTransaction{Transaction: t})
				b, _ := next.Bank(t.BankID)
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (%s); %s balance %s\n",
					display.Signed(t, currencyOf(next)), id.Short(t.ID), b.Name, display.Money(b.Balance, currencyOf(next)))
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newTxListCommand(a *app) *cobra.Command {
	var f filterFlags
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(st *ledger.Store) error {
				s := st.State()
				filter, err := f.build(s)
				if err != nil {
					return err
				}
				txs := filter.Apply(s.Transactions)
				report.SortByDate(txs)
				if limit > 0 && len(txs) > limit {
					txs = txs[:limit]
				}

				cats := categories.NewService(s.Categories)
				cur := currencyOf(s)
				tbl := display.NewTable(cmd.OutOrStdout(), "ID", "DATE", "DESCRIPTION", "AMOUNT", "CATEGORY", "BANK", "FIXED")
				for _, t := range txs {
					bank := display.Muted("?")
					if b, ok := s.Bank(t.BankID); ok {
						bank = b.Name
					}
					tbl.Row(id.Short(t.ID), t.Date.String(), t.Description,
						display.Directional(t.Direction, display.Signed(t, cur)),
						cats.NameOf(t.CategoryID), bank, display.YesNo(t.Fixed))
				}
				return tbl.Flush()
			})
		},
	}
	f.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many")
	return cmd
}

func newTxEditCommand(a *app) *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "edit <transaction>",
		Short: "Change a transaction; balances follow the change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *ledger.Store) error {
				s := st.State()
				t, err := findTransaction(s, args[0])
				if err != nil {
					return err
				}
				if err := f.apply(cmd, a, s, &t, false); err != nil {
					return err
				}
				st.Dispatch(ledger.UpdateTransaction{Transaction: t})
				fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %s\n", id.Short(t.ID))
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newTxRmCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <transaction>",
		Short: "Delete a transaction and revert its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *ledger.Store) error {
				t, err := findTransaction(st.State(), args[0])
				if err != nil {
					return err
				}
				st.Dispatch(ledger.DeleteTransaction{ID: t.ID})
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", id.Short(t.ID))
				return nil
			})
		},
	}
}
