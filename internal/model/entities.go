package model

import "github.com/shopspring/decimal"

func init() {
	// Snapshots carry amounts as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Bank is a tracked account. Balance is moved by transactions applied
// through the ledger, never recomputed from scratch.
type Bank struct {
	ID            string          `json:"id"`
	Name          string          `json:"nome"`
	Branch        string          `json:"agencia"`
	AccountNumber string          `json:"numeroConta"`
	Kind          AccountKind     `json:"tipoConta"`
	Balance       decimal.Decimal `json:"saldoAtual"`
	Color         string          `json:"cor"`
}

// Category labels transactions of one direction.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	Direction Direction `json:"tipo"`
	Color     string    `json:"cor"`
}

// Transaction is a dated money movement on one bank. Amount is never
// negative; Direction carries the sign.
type Transaction struct {
	ID            string          `json:"id"`
	Description   string          `json:"descricao"`
	Amount        decimal.Decimal `json:"valor"`
	Date          Date            `json:"data"`
	Direction     Direction       `json:"tipo"`
	CategoryID    string          `json:"categoriaId"`
	BankID        string          `json:"bancoId"`
	Fixed         bool            `json:"fixa"`
	RepeatMonthly bool            `json:"repeticaoMensal"`
}

// Effect is the signed amount the transaction adds to its bank's balance.
func (t Transaction) Effect() decimal.Decimal {
	return t.Amount.Mul(t.Direction.Sign())
}

// FixedEntry is a template for a recurring transaction.
type FixedEntry struct {
	ID          string          `json:"id"`
	Description string          `json:"descricao"`
	Amount      decimal.Decimal `json:"valor"`
	DueDay      int             `json:"diaVencimento"`
	Direction   Direction       `json:"tipo"`
	CategoryID  string          `json:"categoriaId"`
	BankID      string          `json:"bancoId"`
	Active      bool            `json:"ativo"`
}

// Settings holds user preferences.
type Settings struct {
	Currency  string `json:"moeda"`
	DarkTheme bool   `json:"temaEscuro"`
	Language  string `json:"idioma"`
	FirstRun  bool   `json:"primeiroAcesso"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Currency:  "BRL",
		DarkTheme: false,
		Language:  "pt-BR",
		FirstRun:  true,
	}
}
