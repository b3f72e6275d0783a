package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func rulesOf(issues []Issue) []Rule {
	var rules []Rule
	for _, i := range issues {
		rules = append(rules, i.Rule)
	}
	return rules
}

func TestValidate_Clean(t *testing.T) {
	s := stateWithBanks(bank("a", "0"))
	s = Apply(s, AddTransaction{Transaction: income("t1", "a", "10")})
	s = Apply(s, AddFixedEntry{Entry: model.FixedEntry{ID: "f1", BankID: "a", CategoryID: "1", Direction: model.DirectionExpense}})

	assert.Empty(t, Validate(s))
	assert.NoError(t, Check(s))
}

func TestValidate_DanglingReferences(t *testing.T) {
	s := stateWithBanks(bank("a", "0"))
	tx := income("t1", "nobank", "10")
	tx.CategoryID = "nocat"
	s.Transactions = append(s.Transactions, tx)
	s.FixedEntries = append(s.FixedEntries, model.FixedEntry{ID: "f1", BankID: "a", CategoryID: "gone", Direction: model.DirectionExpense})

	issues := Validate(s)
	assert.ElementsMatch(t, []Rule{RuleBankRef, RuleCategoryRef, RuleCategoryRef}, rulesOf(issues))

	err := Check(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidReferences)
	assert.Contains(t, err.Error(), "nobank")
}

func TestValidate_Duplicates(t *testing.T) {
	s := stateWithBanks(bank("a", "0"), bank("a", "5"))
	issues := Validate(s)
	require.Len(t, issues, 1)
	assert.Equal(t, RuleDuplicateID, issues[0].Rule)
	assert.Equal(t, "a", issues[0].ID)
}

func TestValidate_NegativeAmount(t *testing.T) {
	s := stateWithBanks(bank("a", "0"))
	s.Transactions = append(s.Transactions, income("t1", "a", "-3"))

	issues := Validate(s)
	require.Len(t, issues, 1)
	assert.Equal(t, RuleNegativeAmount, issues[0].Rule)
}

func TestValidate_DirectionMismatchIsWarning(t *testing.T) {
	s := stateWithBanks(bank("a", "0"))
	tx := income("t1", "a", "10")
	tx.CategoryID = "1" // Alimentação is an expense category
	s = Apply(s, AddTransaction{Transaction: tx})

	issues := Validate(s)
	require.Len(t, issues, 1)
	assert.Equal(t, RuleDirection, issues[0].Rule)
	assert.True(t, issues[0].Warning())
	assert.Empty(t, Blocking(issues))
	assert.NoError(t, Check(s), "direction mismatches do not block")
}
