package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/display"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/report"
)

func newReportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summaries, breakdowns and time series",
	}
	cmd.AddCommand(
		newReportSummaryCommand(a),
		newReportCategoriesCommand(a),
		newReportBanksCommand(a),
		newReportSeriesCommand(a),
		newReportYearCommand(a),
	)
	return cmd
}

// withReport runs fn on the ledger state and the filter built from f.
func (a *app) withReport(f *filterFlags, fn func(s model.State, filter report.Filter) error) error {
	return a.withStore(func(st *ledger.Store) error {
		s := st.State()
		filter, err := f.build(s)
		if err != nil {
			return err
		}
		return fn(s, filter)
	})
}

func newReportSummaryCommand(a *app) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Income, expense and net for the selected transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withReport(&f, func(s model.State, filter report.Filter) error {
				sum := report.Summarize(s, filter)
				cur := currencyOf(s)

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, display.Title("Summary"))
				tbl := display.NewTable(out, "", "")
				tbl.Row("Transactions", strconv.Itoa(sum.Count))
				tbl.Row("Income", display.Directional(model.DirectionIncome, display.Money(sum.Income, cur)))
				tbl.Row("Expense", display.Directional(model.DirectionExpense, display.Money(sum.Expense, cur)))
				tbl.Row("Net", display.Money(sum.Net(), cur))
				tbl.Row("Fixed expenses", display.Money(sum.FixedExpenses, cur))
				tbl.Row("Total balance", display.Money(sum.Balance, cur))
				return tbl.Flush()
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newReportCategoriesCommand(a *app) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withReport(&f, func(s model.State, filter report.Filter) error {
				cur := currencyOf(s)
				tbl := display.NewTable(cmd.OutOrStdout(), "CATEGORY", "COUNT", "INCOME", "EXPENSE", "TOTAL")
				for _, r := range report.ByCategory(s, filter) {
					tbl.Row(display.Directional(r.Category.Direction, r.Category.Name), strconv.Itoa(r.Count),
						display.Money(r.Income, cur), display.Money(r.Expense, cur), display.Money(r.Amount, cur))
				}
				return tbl.Flush()
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newReportBanksCommand(a *app) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "banks",
		Short: "Totals and balance per bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withReport(&f, func(s model.State, filter report.Filter) error {
				cur := currencyOf(s)
				tbl := display.NewTable(cmd.OutOrStdout(), "BANK", "COUNT", "INCOME", "EXPENSE", "NET", "BALANCE")
				for _, r := range report.ByBank(s, filter) {
					tbl.Row(r.Bank.Name, strconv.Itoa(r.Count), display.Money(r.Income, cur),
						display.Money(r.Expense, cur), display.Money(r.Net(), cur), display.Money(r.Bank.Balance, cur))
				}
				return tbl.Flush()
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newReportSeriesCommand(a *app) *cobra.Command {
	var f filterFlags
	var period string
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Income and expense per week, month or year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := report.ParsePeriod(period)
			if err != nil {
				return err
			}
			return a.withReport(&f, func(s model.State, filter report.Filter) error {
				cur := currencyOf(s)
				tbl := display.NewTable(cmd.OutOrStdout(), "PERIOD", "INCOME", "EXPENSE", "NET")
				for _, r := range report.Series(filter.Apply(s.Transactions), p) {
					tbl.Row(r.Label, display.Money(r.Income, cur), display.Money(r.Expense, cur), display.Money(r.Net(), cur))
				}
				return tbl.Flush()
			})
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&period, "period", string(report.Month), "week, month or year")
	return cmd
}

func newReportYearCommand(a *app) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "year [year]",
		Short: "Month-by-month totals for one year (default: this year)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year := a.now().Year()
			if len(args) == 1 {
				y, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid year %q", args[0])
				}
				year = y
			}
			return a.withReport(&f, func(s model.State, filter report.Filter) error {
				cur := currencyOf(s)
				tbl := display.NewTable(cmd.OutOrStdout(), "MONTH", "INCOME", "EXPENSE", "NET")
				var total report.Totals
				for _, m := range report.YearView(filter.Apply(s.Transactions), year) {
					tbl.Row(m.Month.String(), display.Money(m.Income, cur), display.Money(m.Expense, cur), display.Money(m.Net(), cur))
					total.Income = total.Income.Add(m.Income)
					total.Expense = total.Expense.Add(m.Expense)
				}
				tbl.Row("TOTAL", display.Money(total.Income, cur), display.Money(total.Expense, cur), display.Money(total.Net(), cur))
				return tbl.Flush()
			})
		},
	}
	f.register(cmd)
	return cmd
}
