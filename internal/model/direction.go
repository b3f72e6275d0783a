package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Direction tells whether money enters or leaves a bank.
type Direction string

const (
	DirectionIncome  Direction = "Entrada"
	DirectionExpense Direction = "Saída"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// Sign returns +1 for income and -1 for anything else.
func (d Direction) Sign() decimal.Decimal {
	if d == DirectionIncome {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(-1)
}

// Label returns the English name used by the command line.
func (d Direction) Label() string {
	switch d {
	case DirectionIncome:
		return "income"
	case DirectionExpense:
		return "expense"
	default:
		return string(d)
	}
}

// ParseDirection accepts the stored value or its English/Portuguese spelling.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "in", "entrada":
		return DirectionIncome, nil
	case "expense", "out", "saida", "saída":
		return DirectionExpense, nil
	}
	return "", fmt.Errorf("unknown direction %q (want income or expense)", s)
}

// AccountKind classifies a bank account.
type AccountKind string

const (
	AccountChecking AccountKind = "Corrente"
	AccountSavings  AccountKind = "Poupança"
	AccountDigital  AccountKind = "Digital"
)

// Valid reports whether k is a known account kind.
func (k AccountKind) Valid() bool {
	switch k {
	case AccountChecking, AccountSavings, AccountDigital:
		return true
	}
	return false
}

// ParseAccountKind accepts the stored value or its English/Portuguese spelling.
func ParseAccountKind(s string) (AccountKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "checking", "corrente":
		return AccountChecking, nil
	case "savings", "poupanca", "poupança":
		return AccountSavings, nil
	case "digital":
		return AccountDigital, nil
	}
	return "", fmt.Errorf("unknown account kind %q (want checking, savings or digital)", s)
}
