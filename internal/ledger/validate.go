package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/model"
)

// ErrInvalidReferences marks a state whose records do not resolve.
var ErrInvalidReferences = errors.New("ledger references do not resolve")

// Rule names the consistency rule an Issue violates.
type Rule string

const (
	RuleDuplicateID    Rule = "duplicate-id"
	RuleBankRef        Rule = "bank-ref"
	RuleCategoryRef    Rule = "category-ref"
	RuleNegativeAmount Rule = "negative-amount"
	// RuleDirection flags a record whose direction differs from its
	// category's. It is reported but never blocks a load.
	RuleDirection Rule = "direction-mismatch"
)

// Issue describes one consistency problem in a state.
type Issue struct {
	Rule        Rule
	ID          string
	Description string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s [%s]: %s", i.Rule, i.ID, i.Description)
}

// Warning reports whether the issue is informational only.
func (i Issue) Warning() bool {
	return i.Rule == RuleDirection
}

// Validate checks a state for duplicate ids, dangling bank and category
// references, negative amounts and direction mismatches.
func Validate(s model.State) []Issue {
	var issues []Issue

	cats := categories.NewService(s.Categories)
	banks := make(map[string]bool, len(s.Banks))

	issues = append(issues, duplicates("bank", s.Banks, bankID)...)
	issues = append(issues, duplicates("category", s.Categories, categoryID)...)
	issues = append(issues, duplicates("transaction", s.Transactions, transactionID)...)
	issues = append(issues, duplicates("fixed entry", s.FixedEntries, fixedEntryID)...)

	for _, b := range s.Banks {
		banks[b.ID] = true
	}

	check := func(id, bank, category string, amount fmt.Stringer, negative bool, dir model.Direction) {
		if !banks[bank] {
			issues = append(issues, Issue{Rule: RuleBankRef, ID: id, Description: fmt.Sprintf("unknown bank %q", bank)})
		}
		c, ok := cats.Get(category)
		if !ok {
			issues = append(issues, Issue{Rule: RuleCategoryRef, ID: id, Description: fmt.Sprintf("unknown category %q", category)})
		} else if c.Direction != dir {
			issues = append(issues, Issue{
				Rule:        RuleDirection,
				ID:          id,
				Description: fmt.Sprintf("%s record filed under %s category %q", dir.Label(), c.Direction.Label(), c.Name),
			})
		}
		if negative {
			issues = append(issues, Issue{Rule: RuleNegativeAmount, ID: id, Description: fmt.Sprintf("amount %s is negative", amount)})
		}
	}

	for _, t := range s.Transactions {
		check(t.ID, t.BankID, t.CategoryID, t.Amount, t.Amount.IsNegative(), t.Direction)
	}
	for _, f := range s.FixedEntries {
		check(f.ID, f.BankID, f.CategoryID, f.Amount, f.Amount.IsNegative(), f.Direction)
	}

	return issues
}

// Blocking returns the issues that are not warnings.
func Blocking(issues []Issue) []Issue {
	var out []Issue
	for _, i := range issues {
		if !i.Warning() {
			out = append(out, i)
		}
	}
	return out
}

// Check returns an error wrapping ErrInvalidReferences when s has any
// blocking issue.
func Check(s model.State) error {
	blocking := Blocking(Validate(s))
	if len(blocking) == 0 {
		return nil
	}
	msgs := make([]string, len(blocking))
	for i, issue := range blocking {
		msgs[i] = issue.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidReferences, strings.Join(msgs, "; "))
}

func duplicates[T any](kind string, items []T, idOf func(T) string) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		id := idOf(item)
		if seen[id] {
			issues = append(issues, Issue{Rule: RuleDuplicateID, ID: id, Description: fmt.Sprintf("%s id used more than once", kind)})
			continue
		}
		seen[id] = true
	}
	return issues
}
