package importer

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// StatementLine is one row of a bank statement. Amount is signed: credits
// are positive, debits negative.
type StatementLine struct {
	Date        model.Date
	Description string
	Amount      decimal.Decimal
	Reference   string
}

// Mapping says where imported lines land in the ledger.
type Mapping struct {
	BankID            string
	IncomeCategoryID  string
	ExpenseCategoryID string
}

// ToTransactions converts statement lines into transactions ready for
// AddTransaction. Positive lines become income, negative lines expense;
// zero lines are dropped.
//
// A line with a Reference gets an id derived from the bank, the reference,
// the amount and how many identical lines precede it, so reading the same
// statement twice yields the same ids. Lines without one get newID().
func ToTransactions(lines []StatementLine, m Mapping, newID func() string) []model.Transaction {
	txs := make([]model.Transaction, 0, len(lines))
	seen := make(map[string]int)
	for _, l := range lines {
		if l.Amount.IsZero() {
			continue
		}
		t := model.Transaction{
			ID:          lineID(l, m.BankID, seen, newID),
			Description: strings.TrimSpace(l.Description),
			Amount:      l.Amount.Abs(),
			Date:        l.Date,
			Direction:   model.DirectionIncome,
			CategoryID:  m.IncomeCategoryID,
			BankID:      m.BankID,
		}
		if l.Amount.IsNegative() {
			t.Direction = model.DirectionExpense
			t.CategoryID = m.ExpenseCategoryID
		}
		txs = append(txs, t)
	}
	return txs
}

func lineID(l StatementLine, bankID string, seen map[string]int, newID func() string) string {
	if l.Reference == "" {
		return newID()
	}
	key := l.Reference + "|" + l.Amount.StringFixed(2)
	n := seen[key]
	seen[key] = n + 1
	return id.Derive("statement", bankID, key, strconv.Itoa(n))
}
