// Package invest projects the growth of a savings plan under monthly
// compounding.
package invest

import (
	"errors"

	"github.com/shopspring/decimal"
)

var hundredTwelve = decimal.NewFromInt(1200)

// Plan describes a savings plan.
type Plan struct {
	Initial decimal.Decimal
	Monthly decimal.Decimal
	// AnnualRate is a percentage, e.g. 12 for 12% a year.
	AnnualRate decimal.Decimal
	Months     int
}

// Result is the projected outcome of a Plan. Values are not rounded.
type Result struct {
	// Balances holds the balance at the end of each month.
	Balances []decimal.Decimal
	Final    decimal.Decimal
	Invested decimal.Decimal
	Profit   decimal.Decimal
}

// Simulate compounds the plan monthly at AnnualRate/12, adding the monthly
// contribution after each month's interest.
func Simulate(p Plan) (Result, error) {
	switch {
	case p.Months < 0:
		return Result{}, errors.New("months must not be negative")
	case p.Initial.IsNegative(), p.Monthly.IsNegative():
		return Result{}, errors.New("amounts must not be negative")
	}

	growth := decimal.NewFromInt(1).Add(p.AnnualRate.Div(hundredTwelve))
	balance := p.Initial
	balances := make([]decimal.Decimal, 0, p.Months)
	for i := 0; i < p.Months; i++ {
		balance = balance.Mul(growth).Add(p.Monthly)
		balances = append(balances, balance)
	}

	invested := p.Initial.Add(p.Monthly.Mul(decimal.NewFromInt(int64(p.Months))))
	return Result{
		Balances: balances,
		Final:    balance,
		Invested: invested,
		Profit:   balance.Sub(invested),
	}, nil
}
