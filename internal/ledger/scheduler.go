package ledger

import (
	"errors"
	"time"

	"github.com/cleared-dev/tally/internal/model"
)

// ErrNoScheduler is returned by MaterializeDue when no Scheduler is installed.
var ErrNoScheduler = errors.New("no fixed-entry scheduler configured")

// Scheduler decides which fixed entries are due at a given time and turns
// them into transactions. The policy (anchor day, time zone, protection
// against materializing the same month twice) belongs to the implementation;
// none ships with the ledger.
type Scheduler interface {
	Due(state model.State, now time.Time) []model.Transaction
}

// MaterializeDue asks the installed Scheduler for due transactions and
// dispatches an AddTransaction for each one. It returns the transactions
// that were added.
func (s *Store) MaterializeDue(now time.Time) ([]model.Transaction, error) {
	if s.scheduler == nil {
		return nil, ErrNoScheduler
	}
	due := s.scheduler.Due(s.State(), now)
	for _, t := range due {
		s.Dispatch(AddTransaction{Transaction: t})
	}
	return due, nil
}
