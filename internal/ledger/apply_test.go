package ledger

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func stateWithBanks(banks ...model.Bank) model.State {
	s := InitialState()
	for _, b := range banks {
		s = Apply(s, AddBank{Bank: b})
	}
	return s
}

func TestInitialState(t *testing.T) {
	s := InitialState()
	assert.Len(t, s.Categories, 5)
	assert.Empty(t, s.Banks)
	assert.Empty(t, s.Transactions)
	assert.Empty(t, s.FixedEntries)
	assert.NotNil(t, s.Banks)
	assert.Equal(t, model.DefaultSettings(), s.Settings)
}

func TestApply_BankLifecycle(t *testing.T) {
	s := stateWithBanks(bank("a", "100.00"))
	require.Len(t, s.Banks, 1)

	renamed := bank("a", "100.00")
	renamed.Name = "Conta Principal"
	s = Apply(s, UpdateBank{Bank: renamed})
	require.Len(t, s.Banks, 1)
	assert.Equal(t, "Conta Principal", s.Banks[0].Name)

	s = Apply(s, UpdateBank{Bank: bank("ghost", "1")})
	assert.Len(t, s.Banks, 1, "update of unknown bank must not insert")

	s = Apply(s, DeleteBank{ID: "a"})
	assert.Empty(t, s.Banks)
}

func TestApply_CategoryLifecycle(t *testing.T) {
	s := InitialState()
	c := model.Category{ID: "c9", Name: "Saúde", Direction: model.DirectionExpense, Color: "#000"}

	s = Apply(s, AddCategory{Category: c})
	require.Len(t, s.Categories, 6)
	assert.Equal(t, c, s.Categories[5])

	c.Name = "Farmácia"
	s = Apply(s, UpdateCategory{Category: c})
	got, ok := s.Category("c9")
	require.True(t, ok)
	assert.Equal(t, "Farmácia", got.Name)

	s = Apply(s, DeleteCategory{ID: "c9"})
	assert.Len(t, s.Categories, 5)
}

func TestApply_FixedEntryLifecycle(t *testing.T) {
	s := stateWithBanks(bank("a", "100"))
	f := model.FixedEntry{ID: "f1", Description: "Aluguel", Amount: dec("1200"), DueDay: 5,
		Direction: model.DirectionExpense, CategoryID: "1", BankID: "a", Active: true}

	s = Apply(s, AddFixedEntry{Entry: f})
	require.Len(t, s.FixedEntries, 1)
	assert.True(t, balanceOf(s, "a").Equal(dec("100")), "fixed entries never move money")

	f.Active = false
	s = Apply(s, UpdateFixedEntry{Entry: f})
	assert.False(t, s.FixedEntries[0].Active)

	s = Apply(s, UpdateFixedEntry{Entry: model.FixedEntry{ID: "nope"}})
	assert.Len(t, s.FixedEntries, 1)

	s = Apply(s, DeleteFixedEntry{ID: "f1"})
	assert.Empty(t, s.FixedEntries)
	assert.True(t, balanceOf(s, "a").Equal(dec("100")))
}

func TestApply_AddTransactionMovesBalance(t *testing.T) {
	s := stateWithBanks(bank("a", "100.00"), bank("b", "0"))

	s = Apply(s, AddTransaction{Transaction: income("t1", "a", "50.00")})
	s = Apply(s, AddTransaction{Transaction: expense("t2", "b", "30.00")})

	assert.True(t, balanceOf(s, "a").Equal(dec("150.00")))
	assert.True(t, balanceOf(s, "b").Equal(dec("-30.00")))
	assert.Len(t, s.Transactions, 2)
}

func TestApply_AddTransactionUnknownBank(t *testing.T) {
	s := stateWithBanks(bank("a", "100.00"))
	s = Apply(s, AddTransaction{Transaction: income("t1", "missing", "50.00")})

	assert.Len(t, s.Transactions, 1, "transaction is still recorded")
	assert.True(t, balanceOf(s, "a").Equal(dec("100.00")))
}

// Bank A starts at 100. +50 income, edited to a 20 expense, then deleted.
func TestApply_EditAndDeleteScenario(t *testing.T) {
	s := stateWithBanks(bank("a", "100.00"))

	s = Apply(s, AddTransaction{Transaction: income("t1", "a", "50.00")})
	assert.True(t, balanceOf(s, "a").Equal(dec("150.00")))

	s = Apply(s, UpdateTransaction{Transaction: expense("t1", "a", "20.00")})
	assert.True(t, balanceOf(s, "a").Equal(dec("80.00")))
	got, ok := s.Transaction("t1")
	require.True(t, ok)
	assert.Equal(t, model.DirectionExpense, got.Direction)

	s = Apply(s, DeleteTransaction{ID: "t1"})
	assert.True(t, balanceOf(s, "a").Equal(dec("100.00")))
	assert.Empty(t, s.Transactions)
}

func TestApply_UpdateTransactionMovesBetweenBanks(t *testing.T) {
	s := stateWithBanks(bank("a", "100"), bank("b", "10"))
	s = Apply(s, AddTransaction{Transaction: expense("t1", "a", "40")})
	require.True(t, balanceOf(s, "a").Equal(dec("60")))

	moved := income("t1", "b", "25")
	s = Apply(s, UpdateTransaction{Transaction: moved})

	assert.True(t, balanceOf(s, "a").Equal(dec("100")), "old effect reverted on the original bank")
	assert.True(t, balanceOf(s, "b").Equal(dec("35")), "new effect applied on the new bank")
}

func TestApply_UpdateTransactionOriginalBankGone(t *testing.T) {
	s := stateWithBanks(bank("a", "100"), bank("b", "0"))
	s = Apply(s, AddTransaction{Transaction: income("t1", "ghost", "40")})

	s = Apply(s, UpdateTransaction{Transaction: income("t1", "b", "40")})
	assert.True(t, balanceOf(s, "a").Equal(dec("100")))
	assert.True(t, balanceOf(s, "b").Equal(dec("40")))
}

func TestApply_NoOpSafety(t *testing.T) {
	s := stateWithBanks(bank("a", "100"))
	s = Apply(s, AddTransaction{Transaction: income("t1", "a", "5")})
	s = Apply(s, AddFixedEntry{Entry: model.FixedEntry{ID: "f1", BankID: "a", CategoryID: "1"}})
	before := s.Clone()

	actions := []Action{
		UpdateBank{Bank: bank("zz", "999")},
		UpdateCategory{Category: model.Category{ID: "zz"}},
		UpdateTransaction{Transaction: income("zz", "a", "999")},
		UpdateFixedEntry{Entry: model.FixedEntry{ID: "zz"}},
		DeleteBank{ID: "zz"},
		DeleteCategory{ID: "zz"},
		DeleteTransaction{ID: "zz"},
		DeleteFixedEntry{ID: "zz"},
		nil,
	}
	for _, a := range actions {
		s = Apply(s, a)
		assert.Equal(t, before, s.Clone(), "action %T must be a no-op", a)
	}
}

func TestApply_DeleteBankCascades(t *testing.T) {
	s := stateWithBanks(bank("a", "0"), bank("b", "0"))
	s = Apply(s, AddTransaction{Transaction: income("t1", "a", "1")})
	s = Apply(s, AddTransaction{Transaction: income("t2", "b", "2")})
	s = Apply(s, AddTransaction{Transaction: expense("t3", "a", "3")})
	s = Apply(s, AddFixedEntry{Entry: model.FixedEntry{ID: "f1", BankID: "a", CategoryID: "1"}})
	s = Apply(s, AddFixedEntry{Entry: model.FixedEntry{ID: "f2", BankID: "b", CategoryID: "1"}})

	s = Apply(s, DeleteBank{ID: "a"})

	for _, tx := range s.Transactions {
		assert.NotEqual(t, "a", tx.BankID)
	}
	for _, f := range s.FixedEntries {
		assert.NotEqual(t, "a", f.BankID)
	}
	assert.Len(t, s.Transactions, 1)
	assert.Len(t, s.FixedEntries, 1)
	assert.True(t, balanceOf(s, "b").Equal(dec("2")))
}

// Category with three transactions: deleting it removes exactly those three.
func TestApply_DeleteCategoryCascades(t *testing.T) {
	s := stateWithBanks(bank("a", "100"))
	cat := model.Category{ID: "c", Name: "Viagem", Direction: model.DirectionExpense}
	s = Apply(s, AddCategory{Category: cat})

	for _, id := range []string{"t1", "t2", "t3"} {
		tx := expense(id, "a", "10")
		tx.CategoryID = "c"
		s = Apply(s, AddTransaction{Transaction: tx})
	}
	s = Apply(s, AddTransaction{Transaction: income("keep", "a", "5")})
	s = Apply(s, AddFixedEntry{Entry: model.FixedEntry{ID: "f1", BankID: "a", CategoryID: "c"}})
	require.Len(t, s.Transactions, 4)
	require.True(t, balanceOf(s, "a").Equal(dec("75")))

	s = Apply(s, DeleteCategory{ID: "c"})

	assert.Len(t, s.Transactions, 1)
	for _, tx := range s.Transactions {
		assert.NotEqual(t, "c", tx.CategoryID)
	}
	assert.Empty(t, s.FixedEntries)
	assert.True(t, balanceOf(s, "a").Equal(dec("105")), "balance matches the transactions that remain")
}

func TestApply_UpdateSettings(t *testing.T) {
	s := InitialState()
	next := model.Settings{Currency: "USD", DarkTheme: true, Language: "en-US"}
	s = Apply(s, UpdateSettings{Settings: next})
	assert.Equal(t, next, s.Settings)
}

func TestApply_LoadDataReplacesWholesale(t *testing.T) {
	s := stateWithBanks(bank("a", "100"))
	snapshot := model.State{
		Banks:        []model.Bank{bank("z", "7")},
		Categories:   []model.Category{},
		Transactions: []model.Transaction{income("t9", "nowhere", "1")},
		FixedEntries: []model.FixedEntry{},
		Settings:     model.Settings{Currency: "EUR"},
	}

	s = Apply(s, LoadData{State: snapshot})
	assert.Equal(t, snapshot, s)
	assert.True(t, balanceOf(s, "z").Equal(dec("7")), "no balance recomputation on load")

	snapshot.Banks[0].Name = "mutated"
	assert.NotEqual(t, "mutated", s.Banks[0].Name, "loaded state must not alias the payload")
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s := stateWithBanks(bank("a", "100"), bank("b", "0"))
	s = Apply(s, AddTransaction{Transaction: income("t1", "a", "10")})
	before := s.Clone()

	_ = Apply(s, UpdateTransaction{Transaction: expense("t1", "b", "3")})
	_ = Apply(s, DeleteTransaction{ID: "t1"})
	_ = Apply(s, DeleteCategory{ID: "4"})
	_ = Apply(s, UpdateBank{Bank: bank("a", "0")})

	assert.Equal(t, before, s)
}

// A random walk of add/update/delete must leave every bank at its opening
// balance plus the signed sum of the transactions that reference it.
func TestApply_BalanceConservation(t *testing.T) {
	opening := map[string]decimal.Decimal{"a": dec("100.00"), "b": dec("-20.50"), "c": dec("0")}
	s := stateWithBanks(bank("a", "100.00"), bank("b", "-20.50"), bank("c", "0"))
	bankIDs := []string{"a", "b", "c", "ghost"}

	rng := rand.New(rand.NewSource(42))
	next := 0
	randomTx := func(id string) model.Transaction {
		amount := decimal.New(rng.Int63n(100000), -2)
		b := bankIDs[rng.Intn(len(bankIDs))]
		if rng.Intn(2) == 0 {
			return income(id, b, amount.String())
		}
		return expense(id, b, amount.String())
	}

	for i := 0; i < 500; i++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(s.Transactions) == 0:
			next++
			s = Apply(s, AddTransaction{Transaction: randomTx(fmt.Sprintf("t%d", next))})
		case op == 1:
			target := s.Transactions[rng.Intn(len(s.Transactions))]
			s = Apply(s, UpdateTransaction{Transaction: randomTx(target.ID)})
		default:
			target := s.Transactions[rng.Intn(len(s.Transactions))]
			s = Apply(s, DeleteTransaction{ID: target.ID})
		}
	}

	for id, open := range opening {
		want := open
		for _, tx := range s.Transactions {
			if tx.BankID == id {
				want = want.Add(tx.Effect())
			}
		}
		assert.True(t, want.Equal(balanceOf(s, id)), "bank %s: want %s got %s", id, want, balanceOf(s, id))
	}
}
