// Package journal reads and writes the transaction collection as CSV, the
// spreadsheet-friendly companion to the JSON export.
package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Header is the first row of a journal CSV.
const Header = "id,date,description,amount,direction,category_id,bank_id,fixed,monthly"

const (
	numFields  = 9
	colID      = 0
	colDate    = 1
	colDesc    = 2
	colAmount  = 3
	colDir     = 4
	colCatID   = 5
	colBankID  = 6
	colFixed   = 7
	colMonthly = 8
)

// ReadTransactions reads every row after the header.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	txs := make([]model.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, t)
	}
	return txs, nil
}

// WriteTransactions writes the header followed by one row per transaction.
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txs {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts t to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = t.ID
	row[colDate] = t.Date.String()
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)
	row[colDir] = t.Direction.Label()
	row[colCatID] = t.CategoryID
	row[colBankID] = t.BankID
	row[colFixed] = strconv.FormatBool(t.Fixed)
	row[colMonthly] = strconv.FormatBool(t.RepeatMonthly)
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction. The direction
// column accepts either the label (income/expense) or the stored value.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := model.ParseDate(record[colDate])
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	dir, err := model.ParseDirection(record[colDir])
	if err != nil {
		return model.Transaction{}, err
	}

	fixed, err := parseFlag(record[colFixed])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing fixed: %w", err)
	}
	monthly, err := parseFlag(record[colMonthly])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing monthly: %w", err)
	}

	return model.Transaction{
		ID:            record[colID],
		Description:   record[colDesc],
		Amount:        amount,
		Date:          date,
		Direction:     dir,
		CategoryID:    record[colCatID],
		BankID:        record[colBankID],
		Fixed:         fixed,
		RepeatMonthly: monthly,
	}, nil
}

func parseFlag(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
