package ledger

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

type recordingPersister struct {
	mu     sync.Mutex
	states []model.State
	err    error
}

func (p *recordingPersister) Save(s model.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.states = append(p.states, s)
	return nil
}

func (p *recordingPersister) last() model.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states[len(p.states)-1]
}

func TestStore_DispatchPersistsEveryChange(t *testing.T) {
	p := &recordingPersister{}
	st := NewStore(InitialState(), WithPersister(p))

	st.Dispatch(AddBank{Bank: bank("a", "10")})
	st.Dispatch(AddTransaction{Transaction: income("t1", "a", "5")})

	require.Len(t, p.states, 2)
	assert.True(t, balanceOf(p.last(), "a").Equal(dec("15")))
	assert.Equal(t, st.State(), p.last())
}

func TestStore_SaveFailureIsLoggedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	p := &recordingPersister{err: errors.New("disk full")}
	st := NewStore(InitialState(), WithPersister(p), WithLogger(logger))

	got := st.Dispatch(AddBank{Bank: bank("a", "10")})

	assert.Len(t, got.Banks, 1, "in-memory session continues")
	assert.Len(t, st.State().Banks, 1)
	assert.Contains(t, buf.String(), "disk full")
	assert.Contains(t, buf.String(), "add_bank")
}

func TestStore_StateIsACopy(t *testing.T) {
	st := NewStore(InitialState())
	st.Dispatch(AddBank{Bank: bank("a", "10")})

	s := st.State()
	s.Banks[0].Name = "changed outside"

	assert.NotEqual(t, "changed outside", st.State().Banks[0].Name)
}

func TestStore_Observers(t *testing.T) {
	var kinds []string
	var targets []string
	st := NewStore(InitialState(),
		WithObserver(func(a Action, _ model.State) { kinds = append(kinds, a.Kind()) }),
		WithObserver(func(a Action, _ model.State) { targets = append(targets, a.Target()) }),
	)

	st.Dispatch(AddBank{Bank: bank("a", "0")})
	st.Dispatch(DeleteBank{ID: "a"})

	assert.Equal(t, []string{"add_bank", "delete_bank"}, kinds)
	assert.Equal(t, []string{"a", "a"}, targets)
}

func TestStore_ConcurrentDispatchKeepsBalance(t *testing.T) {
	p := &recordingPersister{}
	st := NewStore(InitialState(), WithPersister(p))
	st.Dispatch(AddBank{Bank: bank("a", "0")})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "t" + string(rune('0'+i%10)) + string(rune('a'+i/10))
			st.Dispatch(AddTransaction{Transaction: income(id, "a", "1")})
		}(i)
	}
	wg.Wait()

	assert.True(t, balanceOf(st.State(), "a").Equal(dec("50")))
	assert.Len(t, st.State().Transactions, 50)
	assert.True(t, balanceOf(p.last(), "a").Equal(dec("50")), "the newest state is the one left in storage")
}

type fixedScheduler struct {
	due []model.Transaction
}

func (f fixedScheduler) Due(model.State, time.Time) []model.Transaction { return f.due }

func TestStore_MaterializeDue(t *testing.T) {
	st := NewStore(InitialState())
	_, err := st.MaterializeDue(time.Now())
	assert.ErrorIs(t, err, ErrNoScheduler)

	sch := fixedScheduler{due: []model.Transaction{expense("rent-2025-01", "a", "1200")}}
	st = NewStore(InitialState(), WithScheduler(sch))
	st.Dispatch(AddBank{Bank: bank("a", "2000")})

	added, err := st.MaterializeDue(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, added, 1)
	assert.True(t, balanceOf(st.State(), "a").Equal(dec("800")))
}

func TestStore_DispatchNilIsIgnored(t *testing.T) {
	p := &recordingPersister{}
	var observed []Action
	st := NewStore(InitialState(), WithPersister(p), WithObserver(func(a Action, _ model.State) {
		observed = append(observed, a)
		_ = a.Kind()
	}))

	var got model.State
	require.NotPanics(t, func() { got = st.Dispatch(nil) })

	assert.Equal(t, InitialState(), got)
	assert.Empty(t, p.states, "nothing to save")
	assert.Empty(t, observed, "observers only see real actions")
}
