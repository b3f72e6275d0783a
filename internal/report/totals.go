package report

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Totals is income and expense over a set of transactions.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net is income minus expense.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

func (t *Totals) add(tx model.Transaction) {
	switch tx.Direction {
	case model.DirectionIncome:
		t.Income = t.Income.Add(tx.Amount)
	case model.DirectionExpense:
		t.Expense = t.Expense.Add(tx.Amount)
	}
}

// Sum totals txs by direction.
func Sum(txs []model.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		t.add(tx)
	}
	return t
}

// TotalBalance is the sum of all bank balances.
func TotalBalance(banks []model.Bank) decimal.Decimal {
	total := decimal.Zero
	for _, b := range banks {
		total = total.Add(b.Balance)
	}
	return total
}

// Summary is the headline view of a filtered ledger.
type Summary struct {
	Totals
	// Balance is the sum of bank balances; it ignores the filter.
	Balance decimal.Decimal
	// FixedExpenses sums expense transactions flagged fixed.
	FixedExpenses decimal.Decimal
	Count         int
}

// Summarize computes the Summary of the transactions in s matching f.
func Summarize(s model.State, f Filter) Summary {
	txs := f.Apply(s.Transactions)
	sum := Summary{
		Totals:  Sum(txs),
		Balance: TotalBalance(s.Banks),
		Count:   len(txs),
	}
	for _, t := range txs {
		if t.Fixed && t.Direction == model.DirectionExpense {
			sum.FixedExpenses = sum.FixedExpenses.Add(t.Amount)
		}
	}
	return sum
}

// CategoryTotal is the activity of one category.
type CategoryTotal struct {
	Category model.Category
	Totals
	// Amount sums every transaction in the category regardless of direction.
	Amount decimal.Decimal
	Count  int
}

// ByCategory breaks the matching transactions down by category, in the
// order categories appear in s. Categories without matching transactions
// and transactions with an unknown category are left out.
func ByCategory(s model.State, f Filter) []CategoryTotal {
	idx := make(map[string]int, len(s.Categories))
	rows := make([]CategoryTotal, len(s.Categories))
	for i, c := range s.Categories {
		idx[c.ID] = i
		rows[i].Category = c
	}
	for _, t := range f.Apply(s.Transactions) {
		i, ok := idx[t.CategoryID]
		if !ok {
			continue
		}
		rows[i].add(t)
		rows[i].Amount = rows[i].Amount.Add(t.Amount)
		rows[i].Count++
	}

	out := make([]CategoryTotal, 0, len(rows))
	for _, r := range rows {
		if r.Count > 0 {
			out = append(out, r)
		}
	}
	return out
}

// BankTotal is the activity of one bank next to its current balance.
type BankTotal struct {
	Bank model.Bank
	Totals
	Count int
}

// ByBank returns one row per bank in s, in order, with the totals of the
// matching transactions booked on it.
func ByBank(s model.State, f Filter) []BankTotal {
	idx := make(map[string]int, len(s.Banks))
	rows := make([]BankTotal, len(s.Banks))
	for i, b := range s.Banks {
		idx[b.ID] = i
		rows[i].Bank = b
	}
	for _, t := range f.Apply(s.Transactions) {
		if i, ok := idx[t.BankID]; ok {
			rows[i].add(t)
			rows[i].Count++
		}
	}
	return rows
}
