package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// ErrInvalidFormat is returned by Import for documents that are not a
// ledger export.
var ErrInvalidFormat = errors.New("invalid file format")

// ExportTimeLayout is the timestamp format of the dataExportacao field.
const ExportTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Document is the export file: a full state plus the time it was taken.
type Document struct {
	Banks        []model.Bank        `json:"bancos"`
	Categories   []model.Category    `json:"categorias"`
	Transactions []model.Transaction `json:"transacoes"`
	FixedEntries []model.FixedEntry  `json:"lancamentosFixos"`
	Settings     model.Settings      `json:"configuracoes"`
	ExportedAt   string              `json:"dataExportacao"`
}

// Export renders s as an indented export document stamped with at.
func Export(s model.State, at time.Time) ([]byte, error) {
	s = s.Clone()
	doc := Document{
		Banks:        s.Banks,
		Categories:   s.Categories,
		Transactions: s.Transactions,
		FixedEntries: s.FixedEntries,
		Settings:     s.Settings,
		ExportedAt:   at.UTC().Format(ExportTimeLayout),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportFileName is the default name for an export taken on day.
func ExportFileName(day time.Time) string {
	return "financeiro-backup-" + day.Format(model.DateLayout) + ".json"
}

// Import parses an export document. The banks, categories and transactions
// arrays are required. Missing fixed entries default to none; missing
// settings keep current. The result is not checked for dangling references;
// see ledger.Check.
func Import(data []byte, current model.Settings) (model.State, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.State{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var s model.State
	if err := decodeArray(raw, "bancos", &s.Banks, true); err != nil {
		return model.State{}, err
	}
	if err := decodeArray(raw, "categorias", &s.Categories, true); err != nil {
		return model.State{}, err
	}
	if err := decodeArray(raw, "transacoes", &s.Transactions, true); err != nil {
		return model.State{}, err
	}
	if err := decodeArray(raw, "lancamentosFixos", &s.FixedEntries, false); err != nil {
		return model.State{}, err
	}

	// Settings in the document replace the current ones wholesale; fields it
	// leaves out fall to their zero value.
	s.Settings = current
	if msg, ok := raw["configuracoes"]; ok && !isNull(msg) {
		var settings model.Settings
		if err := json.Unmarshal(msg, &settings); err != nil {
			return model.State{}, fmt.Errorf("%w: configuracoes: %v", ErrInvalidFormat, err)
		}
		s.Settings = settings
	}
	return s.Clone(), nil
}

// Reset returns the fresh-install state, keeping the current settings.
func Reset(current model.Settings) model.State {
	s := ledger.InitialState()
	s.Settings = current
	return s
}

func decodeArray[T any](raw map[string]json.RawMessage, field string, dst *[]T, required bool) error {
	msg, ok := raw[field]
	if !ok || isNull(msg) {
		if required {
			return fmt.Errorf("%w: missing %s", ErrInvalidFormat, field)
		}
		return nil
	}
	if trimmed := bytes.TrimSpace(msg); len(trimmed) == 0 || trimmed[0] != '[' {
		return fmt.Errorf("%w: %s is not an array", ErrInvalidFormat, field)
	}
	if err := json.Unmarshal(msg, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFormat, field, err)
	}
	return nil
}

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}
