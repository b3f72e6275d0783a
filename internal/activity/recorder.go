package activity

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// Recorder appends an Entry for every action a Store dispatches.
type Recorder struct {
	dataDir string
	now     func() time.Time
	logger  *slog.Logger
}

// NewRecorder returns a Recorder writing to <dataDir>/activity.csv.
func NewRecorder(dataDir string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{dataDir: dataDir, now: time.Now, logger: logger}
}

// Observe is a ledger.Observer. Write failures are logged, not returned,
// so a broken log never blocks the ledger.
func (r *Recorder) Observe(a ledger.Action, _ model.State) {
	if a == nil {
		return
	}
	e := Entry{
		Timestamp: r.now().UTC(),
		Action:    a.Kind(),
		Target:    a.Target(),
		Details:   Describe(a),
	}
	if err := Append(r.dataDir, e); err != nil {
		r.logger.Warn("recording activity", "action", e.Action, "error", err)
	}
}

// Describe summarizes an action's payload in a few words.
func Describe(a ledger.Action) string {
	switch a := a.(type) {
	case ledger.AddBank:
		return a.Bank.Name
	case ledger.UpdateBank:
		return a.Bank.Name
	case ledger.AddCategory:
		return fmt.Sprintf("%s (%s)", a.Category.Name, a.Category.Direction.Label())
	case ledger.UpdateCategory:
		return fmt.Sprintf("%s (%s)", a.Category.Name, a.Category.Direction.Label())
	case ledger.AddTransaction:
		return describeTransaction(a.Transaction)
	case ledger.UpdateTransaction:
		return describeTransaction(a.Transaction)
	case ledger.AddFixedEntry:
		return fmt.Sprintf("%s %s day %d", a.Entry.Description, a.Entry.Amount.StringFixed(2), a.Entry.DueDay)
	case ledger.UpdateFixedEntry:
		return fmt.Sprintf("%s %s day %d", a.Entry.Description, a.Entry.Amount.StringFixed(2), a.Entry.DueDay)
	case ledger.UpdateSettings:
		return fmt.Sprintf("currency=%s language=%s", a.Settings.Currency, a.Settings.Language)
	case ledger.LoadData:
		return fmt.Sprintf("%d banks, %d categories, %d transactions, %d fixed entries",
			len(a.State.Banks), len(a.State.Categories), len(a.State.Transactions), len(a.State.FixedEntries))
	}
	return ""
}

func describeTransaction(t model.Transaction) string {
	return fmt.Sprintf("%s %s %s on %s", t.Date, t.Direction.Label(), t.Amount.StringFixed(2), t.Description)
}
