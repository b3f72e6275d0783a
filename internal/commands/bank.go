package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/display"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/report"
)

type bankFlags struct {
	kind    string
	branch  string
	account string
	balance string
	color   string
}

func (f *bankFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", "checking", "account kind (checking, savings, digital)")
	cmd.Flags().StringVar(&f.branch, "branch", "", "branch number")
	cmd.Flags().StringVar(&f.account, "account", "", "account number")
	cmd.Flags().StringVar(&f.balance, "balance", "0", "current balance")
	cmd.Flags().StringVar(&f.color, "color", "#3b82f6", "display color")
}

// apply copies the flags the user set onto b.
func (f *bankFlags) apply(cmd *cobra.Command, b *model.Bank) error {
	changed := cmd.Flags().Changed
	if changed("kind") || b.Kind == "" {
		k, err := model.ParseAccountKind(f.kind)
		if err != nil {
			return err
		}
		b.Kind = k
	}
	if changed("branch") {
		b.Branch = f.branch
	}
	if changed("account") {
		b.AccountNumber = f.account
	}
	if changed("balance") || b.ID == "" {
		d, err := parseAmount(f.balance)
		if err != nil {
			return fmt.Errorf("--balance: %w", err)
		}
		b.Balance = d
	}
	if changed("color") || b.Color == "" {
		b.Color = f.color
	}
	return nil
}

func newBankCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Manage bank accounts",
	}
	cmd.AddCommand(newBankAddCommand(a), newBankListCommand(a), newBankEditCommand(a), newBankRmCommand(a))
	return cmd
}

func newBankAddCommand(a *app) *cobra.Command {
	var f bankFlags
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a bank account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := requireText("name", args[0])
			if err != nil {
				return err
			}
			b := model.Bank{Name: name}
			if err := f.apply(cmd, &b); err != nil {
				return err
			}
			b.ID = id.New()

			return a.withStore(func(st *ledger.Store) error {
				st.Dispatch(ledger.AddBank{Bank: b})
				fmt.Fprintf(cmd.OutOrStdout(), "Added bank %s (%s)\n", b.Name, id.Short(b.ID))
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newBankListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bank accounts with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(st *ledger.Store) error {
				s := st.State()
				cur := currencyOf(s)

				tbl := display.NewTable(cmd.OutOrStdout(), "ID", "NAME", "KIND", "BRANCH", "ACCOUNT", "BALANCE")
				for _, b := range s.Banks {
					tbl.Row(id.Short(b.ID), b.Name, string(b.Kind), b.Branch, b.AccountNumber, display.Money(b.Balance, cur))
				}
				tbl.Row("", "TOTAL", "", "", "", display.Money(report.TotalBalance(s.Banks), cur))
				return tbl.Flush()
			})
		},
	}
}

func newBankEditCommand(a *app) *cobra.Command {
	var f bankFlags
	var name string
	cmd := &cobra.Command{
		Use:   "edit <bank>",
		Short: "Change a bank account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *ledger.Store) error {
				b, err := findBank(st.State(), args[0])
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("name") {
					if b.Name, err = requireText("name", name); err != nil {
						return err
					}
				}
				if err := f.apply(cmd, &b); err != nil {
					return err
				}
				st.Dispatch(ledger.UpdateBank{Bank: b})
				fmt.Fprintf(cmd.OutOrStdout(), "Updated bank %s\n", b.Name)
				return nil
			})
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "new name")
	return cmd
}

func newBankRmCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <bank>",
		Short: "Delete a bank account with its transactions and fixed entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *ledger.Store) error {
				s := st.State()
				b, err := findBank(s, args[0])
				if err != nil {
					return err
				}
				n := len(report.Filter{BankIDs: []string{b.ID}}.Apply(s.Transactions))
				st.Dispatch(ledger.DeleteBank{ID: b.ID})
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted bank %s and %d transactions\n", b.Name, n)
				return nil
			})
		},
	}
}
