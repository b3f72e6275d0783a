package categories

import "github.com/cleared-dev/tally/internal/model"

// Defaults returns the categories every fresh or reset ledger starts with.
// The ids are fixed so that older exports keep resolving.
func Defaults() []model.Category {
	return []model.Category{
		{ID: "1", Name: "Alimentação", Direction: model.DirectionExpense, Color: "#f87171"},
		{ID: "2", Name: "Transporte", Direction: model.DirectionExpense, Color: "#fb923c"},
		{ID: "3", Name: "Lazer", Direction: model.DirectionExpense, Color: "#a78bfa"},
		{ID: "4", Name: "Salário", Direction: model.DirectionIncome, Color: "#4ade80"},
		{ID: "5", Name: "Freelance", Direction: model.DirectionIncome, Color: "#38bdf8"},
	}
}
