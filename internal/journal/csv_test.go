package journal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sample() []model.Transaction {
	return []model.Transaction{
		{
			ID: "t1", Description: "Salário janeiro", Amount: dec("5000"),
			Date: model.NewDate(2025, 1, 5), Direction: model.DirectionIncome,
			CategoryID: "4", BankID: "b1", Fixed: true, RepeatMonthly: true,
		},
		{
			ID: "t2", Description: "Mercado", Amount: dec("312.47"),
			Date: model.NewDate(2025, 1, 9), Direction: model.DirectionExpense,
			CategoryID: "1", BankID: "b2",
		},
	}
}

func TestRoundTrip(t *testing.T) {
	txs := sample()

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txs))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(txs))

	for i := range txs {
		assert.Equal(t, txs[i].ID, got[i].ID)
		assert.Equal(t, txs[i].Description, got[i].Description)
		assert.True(t, txs[i].Amount.Equal(got[i].Amount), "amount mismatch row %d", i)
		assert.True(t, txs[i].Date.Equal(got[i].Date.Time))
		assert.Equal(t, txs[i].Direction, got[i].Direction)
		assert.Equal(t, txs[i].CategoryID, got[i].CategoryID)
		assert.Equal(t, txs[i].BankID, got[i].BankID)
		assert.Equal(t, txs[i].Fixed, got[i].Fixed)
		assert.Equal(t, txs[i].RepeatMonthly, got[i].RepeatMonthly)
	}
}

func TestMarshalTransaction(t *testing.T) {
	row := MarshalTransaction(sample()[0])
	assert.Equal(t, []string{"t1", "2025-01-05", "Salário janeiro", "5000.00", "income", "4", "b1", "true", "true"}, row)
}

func TestSpecialCharactersInDescription(t *testing.T) {
	tx := sample()[1]
	tx.Description = `Padaria "Pão Quente", centro`

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, []model.Transaction{tx}))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tx.Description, got[0].Description)
}

func TestReadTransactions_Empty(t *testing.T) {
	got, err := ReadTransactions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadTransactions_HeaderOnly(t *testing.T) {
	got, err := ReadTransactions(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadTransactions_AcceptsStoredDirection(t *testing.T) {
	in := Header + "\nt9,2025-02-01,Uber,23.9,Saída,2,b1,,\n"
	got, err := ReadTransactions(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.DirectionExpense, got[0].Direction)
	assert.False(t, got[0].Fixed)
	assert.True(t, dec("23.90").Equal(got[0].Amount))
}

func TestReadTransactions_BadRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"bad date", "t1,01/02/2025,x,1,income,4,b1,false,false"},
		{"bad amount", "t1,2025-02-01,x,abc,income,4,b1,false,false"},
		{"bad direction", "t1,2025-02-01,x,1,sideways,4,b1,false,false"},
		{"bad flag", "t1,2025-02-01,x,1,income,4,b1,maybe,false"},
		{"short row", "t1,2025-02-01,x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTransactions(strings.NewReader(Header + "\n" + tt.row + "\n"))
			assert.Error(t, err)
		})
	}
}

func TestStringFixed2Formatting(t *testing.T) {
	tx := sample()[1]
	tx.Amount = dec("7.5")
	assert.Equal(t, "7.50", MarshalTransaction(tx)[colAmount])
}
