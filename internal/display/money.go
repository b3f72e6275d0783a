// Package display renders ledger values for the terminal.
package display

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Money formats amount in the given ISO 4217 currency, e.g. "R$1.234,50"
// for BRL. Unknown currencies fall back to "1234.50 XYZ".
func Money(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// Signed formats a transaction amount with its direction's sign.
func Signed(t model.Transaction, currency string) string {
	s := Money(t.Amount, currency)
	if t.Direction == model.DirectionIncome {
		return "+" + s
	}
	return "-" + s
}

// KnownCurrency reports whether code is an ISO 4217 currency Money can format.
func KnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(strings.TrimSpace(code))) != nil
}
