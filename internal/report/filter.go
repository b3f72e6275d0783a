// Package report derives read-only views from a ledger state: filtered
// transaction lists, totals, per-category and per-bank breakdowns and
// time series. Nothing here mutates its input.
package report

import (
	"slices"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// FixedMode restricts a Filter by the transaction's fixed flag.
type FixedMode int

const (
	FixedAny FixedMode = iota
	FixedOnly
	NonFixedOnly
)

// Filter selects transactions. Zero fields do not restrict.
type Filter struct {
	Search      string
	Direction   model.Direction
	CategoryIDs []string
	BankIDs     []string
	// From and To bound the transaction date, both inclusive.
	From  model.Date
	To    model.Date
	Fixed FixedMode
}

// Match reports whether t passes every restriction of f.
func (f Filter) Match(t model.Transaction) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)) {
		return false
	}
	if f.Direction != "" && t.Direction != f.Direction {
		return false
	}
	if len(f.CategoryIDs) > 0 && !slices.Contains(f.CategoryIDs, t.CategoryID) {
		return false
	}
	if len(f.BankIDs) > 0 && !slices.Contains(f.BankIDs, t.BankID) {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	switch f.Fixed {
	case FixedOnly:
		return t.Fixed
	case NonFixedOnly:
		return !t.Fixed
	}
	return true
}

// Apply returns the transactions that match f, in their original order.
func (f Filter) Apply(txs []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortByDate orders transactions newest first; ties keep their order.
func SortByDate(txs []model.Transaction) {
	slices.SortStableFunc(txs, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})
}
