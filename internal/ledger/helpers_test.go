package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year int, month time.Month, d int) model.Date {
	return model.NewDate(year, month, d)
}

func bank(id, balance string) model.Bank {
	return model.Bank{ID: id, Name: "Bank " + id, Kind: model.AccountChecking, Balance: dec(balance)}
}

func income(id, bankID, amount string) model.Transaction {
	return model.Transaction{
		ID: id, Description: "in " + id, Amount: dec(amount), Date: day(2025, 1, 10),
		Direction: model.DirectionIncome, CategoryID: "4", BankID: bankID,
	}
}

func expense(id, bankID, amount string) model.Transaction {
	return model.Transaction{
		ID: id, Description: "out " + id, Amount: dec(amount), Date: day(2025, 1, 12),
		Direction: model.DirectionExpense, CategoryID: "1", BankID: bankID,
	}
}

func balanceOf(s model.State, id string) decimal.Decimal {
	b, _ := s.Bank(id)
	return b.Balance
}
