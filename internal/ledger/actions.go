// Package ledger owns the authoritative ledger state and the transition
// function that mutates it. Every change goes through Apply; bank balances
// are kept in step with the transactions that reference them.
package ledger

import "github.com/cleared-dev/tally/internal/model"

// Action is a request to move the ledger to a new state. The set of
// actions is closed: only the types in this file implement it.
type Action interface {
	// Kind names the action for logs and the activity journal.
	Kind() string
	// Target is the id of the record the action is about, if any.
	Target() string

	isAction()
}

// AddBank appends a bank. Its balance is taken as given.
type AddBank struct{ Bank model.Bank }

// UpdateBank replaces the bank with the same id, balance included.
type UpdateBank struct{ Bank model.Bank }

// DeleteBank removes a bank with its transactions and fixed entries.
type DeleteBank struct{ ID string }

// AddCategory appends a category.
type AddCategory struct{ Category model.Category }

// UpdateCategory replaces the category with the same id.
type UpdateCategory struct{ Category model.Category }

// DeleteCategory removes a category with its transactions and fixed
// entries, reverting the removed transactions on their banks.
type DeleteCategory struct{ ID string }

// AddTransaction appends a transaction and applies it to its bank.
type AddTransaction struct{ Transaction model.Transaction }

// UpdateTransaction reverts the stored record on its bank and applies the
// new one. An unknown id changes nothing.
type UpdateTransaction struct{ Transaction model.Transaction }

// DeleteTransaction removes a transaction and reverts it on its bank.
type DeleteTransaction struct{ ID string }

// AddFixedEntry appends a recurring entry. Balances are untouched.
type AddFixedEntry struct{ Entry model.FixedEntry }

// UpdateFixedEntry replaces the fixed entry with the same id.
type UpdateFixedEntry struct{ Entry model.FixedEntry }

// DeleteFixedEntry removes a fixed entry.
type DeleteFixedEntry struct{ ID string }

// UpdateSettings replaces the settings wholesale.
type UpdateSettings struct{ Settings model.Settings }

// LoadData replaces the whole state. The payload is trusted as is.
type LoadData struct{ State model.State }

func (AddBank) Kind() string           { return "add_bank" }
func (UpdateBank) Kind() string        { return "update_bank" }
func (DeleteBank) Kind() string        { return "delete_bank" }
func (AddCategory) Kind() string       { return "add_category" }
func (UpdateCategory) Kind() string    { return "update_category" }
func (DeleteCategory) Kind() string    { return "delete_category" }
func (AddTransaction) Kind() string    { return "add_transaction" }
func (UpdateTransaction) Kind() string { return "update_transaction" }
func (DeleteTransaction) Kind() string { return "delete_transaction" }
func (AddFixedEntry) Kind() string     { return "add_fixed_entry" }
func (UpdateFixedEntry) Kind() string  { return "update_fixed_entry" }
func (DeleteFixedEntry) Kind() string  { return "delete_fixed_entry" }
func (UpdateSettings) Kind() string    { return "update_settings" }
func (LoadData) Kind() string          { return "load_data" }

func (a AddBank) Target() string           { return a.Bank.ID }
func (a UpdateBank) Target() string        { return a.Bank.ID }
func (a DeleteBank) Target() string        { return a.ID }
func (a AddCategory) Target() string       { return a.Category.ID }
func (a UpdateCategory) Target() string    { return a.Category.ID }
func (a DeleteCategory) Target() string    { return a.ID }
func (a AddTransaction) Target() string    { return a.Transaction.ID }
func (a UpdateTransaction) Target() string { return a.Transaction.ID }
func (a DeleteTransaction) Target() string { return a.ID }
func (a AddFixedEntry) Target() string     { return a.Entry.ID }
func (a UpdateFixedEntry) Target() string  { return a.Entry.ID }
func (a DeleteFixedEntry) Target() string  { return a.ID }
func (UpdateSettings) Target() string      { return "" }
func (LoadData) Target() string            { return "" }

func (AddBank) isAction()           {}
func (UpdateBank) isAction()        {}
func (DeleteBank) isAction()        {}
func (AddCategory) isAction()       {}
func (UpdateCategory) isAction()    {}
func (DeleteCategory) isAction()    {}
func (AddTransaction) isAction()    {}
func (UpdateTransaction) isAction() {}
func (DeleteTransaction) isAction() {}
func (AddFixedEntry) isAction()     {}
func (UpdateFixedEntry) isAction()  {}
func (DeleteFixedEntry) isAction()  {}
func (UpdateSettings) isAction()    {}
func (LoadData) isAction()          {}
