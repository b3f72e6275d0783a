package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/report"
)

// filterFlags are the transaction filters shared by listing and reports.
type filterFlags struct {
	search     string
	direction  string
	categories []string
	banks      []string
	from       string
	to         string
	fixed      bool
	notFixed   bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.search, "search", "", "match descriptions containing this text")
	flags.StringVar(&f.direction, "direction", "", "income or expense")
	flags.StringSliceVar(&f.categories, "category", nil, "category name or id (repeatable)")
	flags.StringSliceVar(&f.banks, "bank", nil, "bank name or id (repeatable)")
	flags.StringVar(&f.from, "from", "", "first day, YYYY-MM-DD")
	flags.StringVar(&f.to, "to", "", "last day, YYYY-MM-DD")
	flags.BoolVar(&f.fixed, "fixed", false, "only fixed transactions")
	flags.BoolVar(&f.notFixed, "not-fixed", false, "only non-fixed transactions")
	cmd.MarkFlagsMutuallyExclusive("fixed", "not-fixed")
}

// build resolves names against s.
func (f *filterFlags) build(s model.State) (report.Filter, error) {
	out := report.Filter{Search: f.search}
	var err error
	if f.direction != "" {
		if out.Direction, err = model.ParseDirection(f.direction); err != nil {
			return out, err
		}
	}
	for _, ref := range f.categories {
		c, err := findCategory(s, ref)
		if err != nil {
			return out, err
		}
		out.CategoryIDs = append(out.CategoryIDs, c.ID)
	}
	for _, ref := range f.banks {
		b, err := findBank(s, ref)
		if err != nil {
			return out, err
		}
		out.BankIDs = append(out.BankIDs, b.ID)
	}
	if f.from != "" {
		if out.From, err = model.ParseDate(f.from); err != nil {
			return out, err
		}
	}
	if f.to != "" {
		if out.To, err = model.ParseDate(f.to); err != nil {
			return out, err
		}
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.To.Before(out.From) {
		return out, errors.New("--to is before --from")
	}
	switch {
	case f.fixed:
		out.Fixed = report.FixedOnly
	case f.notFixed:
		out.Fixed = report.NonFixedOnly
	}
	return out, nil
}
