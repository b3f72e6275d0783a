package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// CSVParser reads a generic statement CSV with a header row. Columns are
// found by name: date/data, description/descrição/histórico and amount/valor
// are required; id/identificador is optional. Fields may be separated by
// commas or semicolons, dates may be 2006-01-02 or 02/01/2006 and amounts
// may use a decimal comma.
type CSVParser struct{}

var (
	dateColumns   = []string{"date", "data"}
	descColumns   = []string{"description", "descricao", "descrição", "historico", "histórico", "memo"}
	amountColumns = []string{"amount", "valor"}
	refColumns    = []string{"id", "identificador", "reference", "fitid"}

	csvDateFormats = []string{model.DateLayout, "02/01/2006"}
)

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads the statement.
func (p *CSVParser) Parse(r io.Reader) ([]StatementLine, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffComma(first)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	header := records[0]
	dateCol, descCol, amountCol := column(header, dateColumns), column(header, descColumns), column(header, amountColumns)
	if dateCol < 0 || descCol < 0 || amountCol < 0 {
		return nil, fmt.Errorf("statement CSV needs date, description and amount columns, got %v", header)
	}
	refCol := column(header, refColumns)

	lines := make([]StatementLine, 0, len(records)-1)
	for i, rec := range records[1:] {
		date, err := parseStatementDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		amount, err := parseAmount(rec[amountCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		line := StatementLine{Date: model.DateOf(date), Description: rec[descCol], Amount: amount}
		if refCol >= 0 {
			line.Reference = rec[refCol]
		} else {
			line.Reference = makeRef("csv", date, rec[descCol])
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func sniffComma(head []byte) rune {
	firstLine, _, _ := strings.Cut(string(head), "\n")
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

func column(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func parseStatementDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range csvDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q", s)
}

// parseAmount accepts "1234.56", "-1,234.56", "1.234,56" and "-80,5".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")

	lastComma, lastDot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
