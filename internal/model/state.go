package model

// State is the whole ledger: the unit of persistence, export and import.
type State struct {
	Banks        []Bank        `json:"bancos"`
	Categories   []Category    `json:"categorias"`
	Transactions []Transaction `json:"transacoes"`
	FixedEntries []FixedEntry  `json:"lancamentosFixos"`
	Settings     Settings      `json:"configuracoes"`
}

// Clone returns a copy whose collections share no backing arrays with s.
// Nil collections come back as empty slices so they encode as [].
func (s State) Clone() State {
	return State{
		Banks:        cloneSlice(s.Banks),
		Categories:   cloneSlice(s.Categories),
		Transactions: cloneSlice(s.Transactions),
		FixedEntries: cloneSlice(s.FixedEntries),
		Settings:     s.Settings,
	}
}

// Bank returns the bank with the given id.
func (s State) Bank(id string) (Bank, bool) {
	for _, b := range s.Banks {
		if b.ID == id {
			return b, true
		}
	}
	return Bank{}, false
}

// Category returns the category with the given id.
func (s State) Category(id string) (Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Transaction returns the transaction with the given id.
func (s State) Transaction(id string) (Transaction, bool) {
	for _, t := range s.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// FixedEntry returns the fixed entry with the given id.
func (s State) FixedEntry(id string) (FixedEntry, bool) {
	for _, f := range s.FixedEntries {
		if f.ID == id {
			return f, true
		}
	}
	return FixedEntry{}, false
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
