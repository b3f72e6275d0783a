package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cleared-dev/tally/internal/model"
)

// Period is the bucket width of a time series.
type Period string

const (
	Week  Period = "week"
	Month Period = "month"
	Year  Period = "year"
)

// ParsePeriod accepts week, month or year.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(s)); p {
	case Week, Month, Year:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q (want week, month or year)", s)
}

// Start returns the first day of the period containing d. Weeks start on
// Sunday.
func (p Period) Start(d model.Date) model.Date {
	switch p {
	case Week:
		return model.Date{Time: d.AddDate(0, 0, -int(d.Weekday()))}
	case Year:
		return model.NewDate(d.Year(), time.January, 1)
	default:
		return model.NewDate(d.Year(), d.Month(), 1)
	}
}

// Label names the period starting at start.
func (p Period) Label(start model.Date) string {
	switch p {
	case Week:
		return start.String()
	case Year:
		return start.Format("2006")
	default:
		return start.Format("2006-01")
	}
}

// PeriodTotal is income and expense within one period.
type PeriodTotal struct {
	Label string
	Start model.Date
	Totals
}

// Series buckets txs by period. Only periods with activity appear; they are
// sorted chronologically.
func Series(txs []model.Transaction, p Period) []PeriodTotal {
	buckets := make(map[time.Time]*PeriodTotal)
	for _, t := range txs {
		start := p.Start(t.Date)
		b, ok := buckets[start.Time]
		if !ok {
			b = &PeriodTotal{Label: p.Label(start), Start: start}
			buckets[start.Time] = b
		}
		b.add(t)
	}

	out := make([]PeriodTotal, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b PeriodTotal) int {
		return a.Start.Compare(b.Start.Time)
	})
	return out
}

// MonthTotal is one row of a YearView.
type MonthTotal struct {
	Month time.Month
	Totals
}

// YearView returns the twelve months of year with their totals; months
// without activity are zero.
func YearView(txs []model.Transaction, year int) [12]MonthTotal {
	var months [12]MonthTotal
	for i := range months {
		months[i].Month = time.Month(i + 1)
	}
	for _, t := range txs {
		if t.Date.Year() != year {
			continue
		}
		months[t.Date.Month()-1].add(t)
	}
	return months
}
