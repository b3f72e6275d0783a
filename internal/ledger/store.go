package ledger

import (
	"log/slog"
	"sync"

	"github.com/cleared-dev/tally/internal/model"
)

// Persister writes a settled state to durable storage.
type Persister interface {
	Save(state model.State) error
}

// Observer is called after every dispatched action with the new state.
type Observer func(a Action, state model.State)

// Option configures a Store.
type Option func(*Store)

// WithPersister makes the store save the state after every transition.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithObserver registers an observer. Observers run in registration order.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

// WithScheduler installs the policy used by MaterializeDue.
func WithScheduler(sch Scheduler) Option {
	return func(s *Store) { s.scheduler = sch }
}

// Store is the single owner of the ledger state. All mutation is funneled
// through Dispatch; readers get copies.
type Store struct {
	mu    sync.Mutex
	state model.State
	seq   uint64

	saveMu sync.Mutex
	saved  uint64

	persister Persister
	observers []Observer
	scheduler Scheduler
	logger    *slog.Logger
}

// NewStore creates a Store holding initial.
func NewStore(initial model.State, opts ...Option) *Store {
	s := &Store{state: initial.Clone()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies a and returns the resulting state. The transition is
// atomic with respect to other dispatches. Saving happens after the
// transition settles; a failed save is logged and the session goes on.
// A nil action changes nothing and is neither saved nor observed.
func (s *Store) Dispatch(a Action) model.State {
	if a == nil {
		return s.State()
	}
	s.mu.Lock()
	s.state = Apply(s.state, a)
	s.seq++
	seq, snap := s.seq, s.state.Clone()
	s.mu.Unlock()

	s.save(seq, a, snap)
	for _, o := range s.observers {
		o(a, snap)
	}
	return snap
}

// save writes snap unless a later state has already been written.
func (s *Store) save(seq uint64, a Action, snap model.State) {
	if s.persister == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if seq <= s.saved {
		return
	}
	if err := s.persister.Save(snap); err != nil {
		s.logger.Error("persisting ledger state", "action", kindOf(a), "error", err)
		return
	}
	s.saved = seq
}

func kindOf(a Action) string {
	if a == nil {
		return "unknown"
	}
	return a.Kind()
}
