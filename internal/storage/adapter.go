package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// DefaultKey is the slot the ledger lives in.
const DefaultKey = "financeData"

// Adapter persists ledger states into a Slot. It implements ledger.Persister.
type Adapter struct {
	slot   Slot
	key    string
	logger *slog.Logger
}

// NewAdapter returns an Adapter writing to key in slot. An empty key means
// DefaultKey; a nil logger means slog.Default().
func NewAdapter(slot Slot, key string, logger *slog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{slot: slot, key: key, logger: logger}
}

// Load reads the stored state. ok is false when the slot is empty, unreadable
// or malformed; the caller keeps its defaults in that case. Consistency
// problems in a readable state are logged but do not prevent the load.
func (a *Adapter) Load() (model.State, bool) {
	data, err := a.slot.Read(a.key)
	if errors.Is(err, ErrNotFound) {
		a.logger.Debug("no stored ledger, starting fresh", "key", a.key)
		return model.State{}, false
	}
	if err != nil {
		a.logger.Warn("reading stored ledger", "key", a.key, "error", err)
		return model.State{}, false
	}

	var s model.State
	if err := json.Unmarshal(data, &s); err != nil {
		a.logger.Warn("stored ledger is malformed, starting fresh", "key", a.key, "error", err)
		return model.State{}, false
	}
	s = s.Clone()

	for _, issue := range ledger.Validate(s) {
		level := slog.LevelWarn
		if issue.Warning() {
			level = slog.LevelInfo
		}
		a.logger.Log(context.Background(), level, "stored ledger issue", "rule", issue.Rule, "id", issue.ID, "detail", issue.Description)
	}
	return s, true
}

// Open builds a Store hydrated from the slot (or the initial state when the
// slot holds nothing usable) that saves back through a.
func (a *Adapter) Open(opts ...ledger.Option) *ledger.Store {
	initial, ok := a.Load()
	if !ok {
		initial = ledger.InitialState()
	}
	base := []ledger.Option{ledger.WithPersister(a), ledger.WithLogger(a.logger)}
	return ledger.NewStore(initial, append(base, opts...)...)
}

// Save writes s to the slot.
func (a *Adapter) Save(s model.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := a.slot.Write(a.key, data); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	return nil
}

// Encode returns the compact JSON form of s used for the storage slot.
func Encode(s model.State) ([]byte, error) {
	data, err := json.Marshal(s.Clone())
	if err != nil {
		return nil, fmt.Errorf("encoding ledger: %w", err)
	}
	return data, nil
}
