package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/display"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

func newStatementCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Import bank statements (CSV, OFX)",
	}
	cmd.AddCommand(newStatementImportCommand(a), newStatementFormatsCommand())
	return cmd
}

func newStatementFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List the statement formats tally can read",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, f := range importer.DefaultRegistry().Formats() {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}

func newStatementImportCommand(a *app) *cobra.Command {
	var bank, incomeCat, expenseCat, format string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Record statement lines as transactions on one bank",
		Long: `Read statement files and record each line as a transaction on --bank.
Credits go to --income-category and debits to --expense-category. Lines
already recorded by an earlier import of the same statement are skipped. With no
files, every statement waiting in <data dir>/import is read and moved to
import/processed afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := importer.DefaultRegistry()
			if format != "" && reg.Get(format) == nil {
				return fmt.Errorf("unknown format %q (have %v)", format, reg.Formats())
			}

			files, inbox, err := statementFiles(a.cfg.Data.Dir, args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No statements to import")
				return nil
			}

			return a.withStore(func(st *ledger.Store) error {
				s := st.State()
				m, err := statementMapping(s, bank, incomeCat, expenseCat)
				if err != nil {
					return err
				}

				cur := currencyOf(s)
				tbl := display.NewTable(cmd.OutOrStdout(), "FILE", "DATE", "DESCRIPTION", "AMOUNT")
				total, skipped := 0, 0
				for _, f := range files {
					p := reg.Get(f.Format)
					if format != "" {
						p = reg.Get(format)
					}
					txs, err := readStatement(p, f.Path, m)
					if err != nil {
						return err
					}
					added := 0
					for _, t := range txs {
						if _, ok := s.Transaction(t.ID); ok {
							skipped++
							continue
						}
						if dryRun {
							s.Transactions = append(s.Transactions, t)
						} else {
							s = st.Dispatch(ledger.AddTransaction{Transaction: t})
						}
						added++
						tbl.Row(f.Name, t.Date.String(), t.Description, display.Directional(t.Direction, display.Signed(t, cur)))
					}
					total += added
					a.logger.Info("statement read", "file", f.Name, "format", p.Format(), "lines", len(txs), "added", added)

					if inbox && !dryRun {
						if err := importer.MarkProcessed(a.cfg.Data.Dir, f.Name); err != nil {
							return err
						}
					}
				}
				if err := tbl.Flush(); err != nil {
					return err
				}
				verb := "Imported"
				if dryRun {
					verb = "Would import"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d transactions from %d files, %d already recorded\n", verb, total, len(files), skipped)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bank, "bank", "", "bank the statement belongs to")
	cmd.Flags().StringVar(&incomeCat, "income-category", "", "category for credits")
	cmd.Flags().StringVar(&expenseCat, "expense-category", "", "category for debits")
	cmd.Flags().StringVar(&format, "format", "", "parser to use (default: from the file extension)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be recorded without recording it")
	_ = cmd.MarkFlagRequired("bank")
	_ = cmd.MarkFlagRequired("income-category")
	_ = cmd.MarkFlagRequired("expense-category")
	return cmd
}

// statementFiles returns the named files, or the inbox contents when none
// are named. inbox reports which.
func statementFiles(dataDir string, args []string) (files []importer.FileInfo, inbox bool, err error) {
	if len(args) == 0 {
		files, err = importer.Scan(dataDir)
		return files, true, err
	}
	for _, path := range args {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, false, fmt.Errorf("statement: %w", err)
		}
		files = append(files, importer.FileInfo{
			Name:   filepath.Base(path),
			Path:   path,
			Size:   fi.Size(),
			Format: importer.FormatFor(path),
		})
	}
	return files, false, nil
}

func statementMapping(s model.State, bank, incomeCat, expenseCat string) (importer.Mapping, error) {
	b, err := findBank(s, bank)
	if err != nil {
		return importer.Mapping{}, err
	}
	in, err := findCategory(s, incomeCat)
	if err != nil {
		return importer.Mapping{}, err
	}
	out, err := findCategory(s, expenseCat)
	if err != nil {
		return importer.Mapping{}, err
	}
	if in.Direction != model.DirectionIncome || out.Direction != model.DirectionExpense {
		return importer.Mapping{}, errors.New("--income-category must be an income category and --expense-category an expense one")
	}
	return importer.Mapping{BankID: b.ID, IncomeCategoryID: in.ID, ExpenseCategoryID: out.ID}, nil
}

func readStatement(p importer.Parser, path string, m importer.Mapping) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	lines, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return importer.ToTransactions(lines, m, id.New), nil
}
