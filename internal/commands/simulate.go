package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/display"
	"github.com/cleared-dev/tally/internal/invest"
	"github.com/cleared-dev/tally/internal/model"
)

func newSimulateCommand(a *app) *cobra.Command {
	var initial, monthly, rate, currency string
	var months int
	var table bool
	cmd := &cobra.Command{
		Use:         "simulate",
		Short:       "Project a savings plan with monthly compounding",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p invest.Plan
			var err error
			if p.Initial, err = parseAmount(initial); err != nil {
				return fmt.Errorf("--initial: %w", err)
			}
			if p.Monthly, err = parseAmount(monthly); err != nil {
				return fmt.Errorf("--monthly: %w", err)
			}
			if p.AnnualRate, err = parseAmount(rate); err != nil {
				return fmt.Errorf("--rate: %w", err)
			}
			p.Months = months

			res, err := invest.Simulate(p)
			if err != nil {
				return err
			}
			if currency == "" {
				currency = model.DefaultSettings().Currency
			}

			out := cmd.OutOrStdout()
			if table {
				tbl := display.NewTable(out, "MONTH", "BALANCE")
				for i, b := range res.Balances {
					tbl.Row(strconv.Itoa(i+1), display.Money(b, currency))
				}
				if err := tbl.Flush(); err != nil {
					return err
				}
			}
			tbl := display.NewTable(out, "", "")
			tbl.Row("Final balance", display.Money(res.Final, currency))
			tbl.Row("Invested", display.Money(res.Invested, currency))
			tbl.Row("Profit", display.Money(res.Profit, currency))
			return tbl.Flush()
		},
	}
	cmd.Flags().StringVar(&initial, "initial", "0", "starting amount")
	cmd.Flags().StringVar(&monthly, "monthly", "0", "contribution added each month")
	cmd.Flags().StringVar(&rate, "rate", "0", "annual interest rate in percent")
	cmd.Flags().IntVar(&months, "months", 12, "number of months")
	cmd.Flags().StringVar(&currency, "currency", "", "currency for display (default BRL)")
	cmd.Flags().BoolVar(&table, "table", false, "show the balance after every month")
	return cmd
}
