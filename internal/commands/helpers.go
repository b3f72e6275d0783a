package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/categories"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// parseAmount reads a money amount; a decimal comma is accepted.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// parsePositive reads an amount that must be greater than zero.
func parsePositive(flag, s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Decimal{}, fmt.Errorf("--%s is required", flag)
	}
	d, err := parseAmount(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("--%s: %w", flag, err)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("--%s must be greater than zero", flag)
	}
	return d, nil
}

func requireText(flag, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("--%s is required", flag)
	}
	return s, nil
}

func findBank(s model.State, ref string) (model.Bank, error) {
	for _, b := range s.Banks {
		if b.ID == ref || strings.EqualFold(b.Name, ref) {
			return b, nil
		}
	}
	ids := make([]string, len(s.Banks))
	for i, b := range s.Banks {
		ids[i] = b.ID
	}
	found, err := id.Resolve(ref, ids)
	if err != nil {
		return model.Bank{}, fmt.Errorf("bank: %w", err)
	}
	b, _ := s.Bank(found)
	return b, nil
}

func findCategory(s model.State, ref string) (model.Category, error) {
	if c, ok := categories.NewService(s.Categories).Find(ref); ok {
		return c, nil
	}
	ids := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		ids[i] = c.ID
	}
	found, err := id.Resolve(ref, ids)
	if err != nil {
		return model.Category{}, fmt.Errorf("category: %w", err)
	}
	c, _ := s.Category(found)
	return c, nil
}

func findTransaction(s model.State, ref string) (model.Transaction, error) {
	ids := make([]string, len(s.Transactions))
	for i, t := range s.Transactions {
		ids[i] = t.ID
	}
	found, err := id.Resolve(ref, ids)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction: %w", err)
	}
	t, _ := s.Transaction(found)
	return t, nil
}

func findFixedEntry(s model.State, ref string) (model.FixedEntry, error) {
	ids := make([]string, len(s.FixedEntries))
	for i, f := range s.FixedEntries {
		ids[i] = f.ID
	}
	found, err := id.Resolve(ref, ids)
	if err != nil {
		return model.FixedEntry{}, fmt.Errorf("fixed entry: %w", err)
	}
	f, _ := s.FixedEntry(found)
	return f, nil
}

// checkDirection logs when a record's direction differs from its
// category's. The ledger accepts such records.
func checkDirection(logger *slog.Logger, c model.Category, d model.Direction) {
	if c.Direction != d {
		logger.Warn("direction differs from category", "category", c.Name, "category_direction", c.Direction.Label(), "direction", d.Label())
	}
}

func currencyOf(s model.State) string {
	if s.Settings.Currency == "" {
		return model.DefaultSettings().Currency
	}
	return s.Settings.Currency
}
