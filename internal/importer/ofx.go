package importer

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// OFXParser reads OFX/QFX bank and credit card statements.
type OFXParser struct{}

var (
	severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRe  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Format returns the parser name.
func (p *OFXParser) Format() string { return "ofx" }

// Parse reads every bank and credit card statement in the file.
func (p *OFXParser) Parse(r io.Reader) ([]StatementLine, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("parsing OFX file: %w", err)
	}

	var lines []StatementLine
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			lines = append(lines, convertOFX(stmt.BankTranList.Transactions)...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			lines = append(lines, convertOFX(stmt.BankTranList.Transactions)...)
		}
	}

	slog.Debug("parsed OFX file", "lines", len(lines), "bank_statements", len(resp.Bank), "cc_statements", len(resp.CreditCard))
	return lines, nil
}

// preprocessOFX fixes formatting issues some banks ship: leading blank
// lines, mixed-case severities and unterminated SGML tags.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRe.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagRe.ReplaceAllString(content, "$1>")
}

func convertOFX(txs []ofxgo.Transaction) []StatementLine {
	lines := make([]StatementLine, 0, len(txs))
	for _, tx := range txs {
		lines = append(lines, StatementLine{
			Date:        model.DateOf(tx.DtPosted.Time),
			Description: describeOFX(tx),
			Amount:      decimal.NewFromBigRat(&tx.TrnAmt.Rat, 2),
			Reference:   string(tx.FiTID),
		})
	}
	return lines
}

func describeOFX(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}
	name := strings.TrimSpace(string(tx.Name))
	if name == "" {
		name = strings.TrimSpace(string(tx.Memo))
	}
	return name
}
