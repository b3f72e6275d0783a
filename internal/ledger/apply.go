package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/model"
)

// InitialState is the state of a fresh install: the seed categories,
// default settings and nothing else.
func InitialState() model.State {
	return model.State{
		Banks:        []model.Bank{},
		Categories:   categories.Defaults(),
		Transactions: []model.Transaction{},
		FixedEntries: []model.FixedEntry{},
		Settings:     model.DefaultSettings(),
	}
}

// Apply returns the state that results from applying a to s. It never
// modifies s and never fails: updates and deletes of unknown ids, as well
// as a nil action, return s unchanged.
func Apply(s model.State, a Action) model.State {
	switch a := a.(type) {
	case AddBank:
		s.Banks = appendCopy(s.Banks, a.Bank)
	case UpdateBank:
		s.Banks = replaceByID(s.Banks, a.Bank, bankID)
	case DeleteBank:
		s = deleteBank(s, a.ID)

	case AddCategory:
		s.Categories = appendCopy(s.Categories, a.Category)
	case UpdateCategory:
		s.Categories = replaceByID(s.Categories, a.Category, categoryID)
	case DeleteCategory:
		s = deleteCategory(s, a.ID)

	case AddTransaction:
		s.Transactions = appendCopy(s.Transactions, a.Transaction)
		s.Banks = adjustBalance(s.Banks, a.Transaction.BankID, a.Transaction.Effect())
	case UpdateTransaction:
		s = updateTransaction(s, a.Transaction)
	case DeleteTransaction:
		s = deleteTransaction(s, a.ID)

	case AddFixedEntry:
		s.FixedEntries = appendCopy(s.FixedEntries, a.Entry)
	case UpdateFixedEntry:
		s.FixedEntries = replaceByID(s.FixedEntries, a.Entry, fixedEntryID)
	case DeleteFixedEntry:
		s.FixedEntries = removeWhere(s.FixedEntries, func(f model.FixedEntry) bool { return f.ID == a.ID })

	case UpdateSettings:
		s.Settings = a.Settings
	case LoadData:
		return a.State.Clone()
	}
	return s
}

func deleteBank(s model.State, id string) model.State {
	s.Banks = removeWhere(s.Banks, func(b model.Bank) bool { return b.ID == id })
	s.Transactions = removeWhere(s.Transactions, func(t model.Transaction) bool { return t.BankID == id })
	s.FixedEntries = removeWhere(s.FixedEntries, func(f model.FixedEntry) bool { return f.BankID == id })
	return s
}

// deleteCategory drops the category and everything filed under it. The
// dropped transactions are reverted on their banks so balances keep
// matching the transactions that remain.
func deleteCategory(s model.State, id string) model.State {
	banks := s.Banks
	for _, t := range s.Transactions {
		if t.CategoryID == id {
			banks = adjustBalance(banks, t.BankID, t.Effect().Neg())
		}
	}
	s.Banks = banks
	s.Categories = removeWhere(s.Categories, func(c model.Category) bool { return c.ID == id })
	s.Transactions = removeWhere(s.Transactions, func(t model.Transaction) bool { return t.CategoryID == id })
	s.FixedEntries = removeWhere(s.FixedEntries, func(f model.FixedEntry) bool { return f.CategoryID == id })
	return s
}

// updateTransaction reverts the stored record against its original bank,
// amount and direction, then applies the new record against its own bank.
func updateTransaction(s model.State, next model.Transaction) model.State {
	prev, ok := s.Transaction(next.ID)
	if !ok {
		return s
	}
	banks := adjustBalance(s.Banks, prev.BankID, prev.Effect().Neg())
	s.Banks = adjustBalance(banks, next.BankID, next.Effect())
	s.Transactions = replaceByID(s.Transactions, next, transactionID)
	return s
}

func deleteTransaction(s model.State, id string) model.State {
	prev, ok := s.Transaction(id)
	if !ok {
		return s
	}
	s.Banks = adjustBalance(s.Banks, prev.BankID, prev.Effect().Neg())
	s.Transactions = removeWhere(s.Transactions, func(t model.Transaction) bool { return t.ID == id })
	return s
}

// adjustBalance adds delta to the balance of the bank with the given id.
// An unknown bank leaves balances untouched.
func adjustBalance(banks []model.Bank, id string, delta decimal.Decimal) []model.Bank {
	for i, b := range banks {
		if b.ID != id {
			continue
		}
		out := appendCopy(banks[:0:0], banks...)
		out[i].Balance = b.Balance.Add(delta)
		return out
	}
	return banks
}

func bankID(b model.Bank) string               { return b.ID }
func categoryID(c model.Category) string       { return c.ID }
func transactionID(t model.Transaction) string { return t.ID }
func fixedEntryID(f model.FixedEntry) string   { return f.ID }

// appendCopy appends to a fresh backing array so the input is never shared.
func appendCopy[T any](items []T, more ...T) []T {
	out := make([]T, 0, len(items)+len(more))
	out = append(out, items...)
	return append(out, more...)
}

// replaceByID swaps every record whose id matches v's. Nothing is inserted
// when no record matches.
func replaceByID[T any](items []T, v T, idOf func(T) string) []T {
	id := idOf(v)
	for i, item := range items {
		if idOf(item) != id {
			continue
		}
		out := appendCopy(items[:0:0], items...)
		for j := i; j < len(out); j++ {
			if idOf(out[j]) == id {
				out[j] = v
			}
		}
		return out
	}
	return items
}

func removeWhere[T any](items []T, drop func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !drop(item) {
			out = append(out, item)
		}
	}
	return out
}
