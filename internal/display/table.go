package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/cleared-dev/tally/internal/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Table writes aligned columns. Call Flush when done.
type Table struct {
	w *tabwriter.Writer
}

// NewTable starts a table on out with a styled header row.
func NewTable(out io.Writer, headers ...string) *Table {
	t := &Table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = headerStyle.Render(h)
	}
	t.Row(styled...)
	return t
}

// Row adds one line.
func (t *Table) Row(cells ...string) {
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

// Flush writes buffered rows.
func (t *Table) Flush() error {
	return t.w.Flush()
}

// Title renders a section heading.
func Title(s string) string {
	return titleStyle.Render(s)
}

// Muted renders secondary text such as placeholders.
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// Directional colors s green for income and red for expense.
func Directional(d model.Direction, s string) string {
	if d == model.DirectionIncome {
		return incomeStyle.Render(s)
	}
	return expenseStyle.Render(s)
}

// YesNo renders a flag column.
func YesNo(b bool) string {
	if b {
		return "yes"
	}
	return Muted("no")
}
