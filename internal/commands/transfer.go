package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/journal"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/storage"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

func newExportCommand(a *app) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as JSON, or transactions as CSV",
		Long: `Export the whole ledger as an indented JSON document, or only the
transactions as CSV. Output goes to stdout unless -o is given; when -o names
a directory the file is called financeiro-backup-<today>.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatJSON && format != formatCSV {
				return fmt.Errorf("unknown format %q (want json or csv)", format)
			}
			return a.withStore(func(st *ledger.Store) error {
				s := st.State()
				var buf bytes.Buffer
				if format == formatCSV {
					if err := journal.WriteTransactions(&buf, s.Transactions); err != nil {
						return err
					}
				} else {
					data, err := storage.Export(s, a.now())
					if err != nil {
						return err
					}
					buf.Write(data)
				}

				if output == "" || output == "-" {
					_, err := cmd.OutOrStdout().Write(buf.Bytes())
					return err
				}
				path := output
				if fi, err := os.Stat(path); err == nil && fi.IsDir() {
					path = filepath.Join(path, storage.ExportFileName(a.now()))
				}
				if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("writing export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatJSON, "json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file or directory to write (default stdout)")
	return cmd
}

func newImportCommand(a *app) *cobra.Command {
	var format string
	var allowDangling bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the ledger with an export, or append transactions from CSV",
		Long: `Import a JSON export, replacing the whole ledger, or a transactions CSV
written by "tally export --format csv", appending rows whose ids are new.
Imports that reference unknown banks or categories are refused unless
--allow-dangling is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatJSON
				if strings.EqualFold(filepath.Ext(args[0]), ".csv") {
					format = formatCSV
				}
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			return a.withStore(func(st *ledger.Store) error {
				switch format {
				case formatJSON:
					return importDocument(cmd, st, data, allowDangling)
				case formatCSV:
					return importJournal(cmd, st, data, allowDangling)
				}
				return fmt.Errorf("unknown format %q (want json or csv)", format)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json or csv (default: from the file extension)")
	cmd.Flags().BoolVar(&allowDangling, "allow-dangling", false, "accept references to unknown banks or categories")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func importDocument(cmd *cobra.Command, st *ledger.Store, data []byte, allowDangling bool) error {
	s, err := storage.Import(data, st.State().Settings)
	if err != nil {
		return err
	}
	if !allowDangling {
		if err := ledger.Check(s); err != nil {
			return err
		}
	}
	st.Dispatch(ledger.LoadData{State: s})
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d banks, %d categories, %d transactions, %d fixed entries\n",
		len(s.Banks), len(s.Categories), len(s.Transactions), len(s.FixedEntries))
	return nil
}

func importJournal(cmd *cobra.Command, st *ledger.Store, data []byte, allowDangling bool) error {
	txs, err := journal.ReadTransactions(bytes.NewReader(data))
	if err != nil {
		return err
	}
	s := st.State()
	if !allowDangling {
		if err := checkReferences(s, txs); err != nil {
			return err
		}
	}

	added, skipped := 0, 0
	for _, t := range txs {
		if _, ok := s.Transaction(t.ID); ok {
			skipped++
			continue
		}
		s = st.Dispatch(ledger.AddTransaction{Transaction: t})
		added++
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions (%d already present)\n", added, skipped)
	return nil
}

func checkReferences(s model.State, txs []model.Transaction) error {
	var errs []error
	for _, t := range txs {
		if _, ok := s.Bank(t.BankID); !ok {
			errs = append(errs, fmt.Errorf("transaction %s: unknown bank %q", t.ID, t.BankID))
		}
		if _, ok := s.Category(t.CategoryID); !ok {
			errs = append(errs, fmt.Errorf("transaction %s: unknown category %q", t.ID, t.CategoryID))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ledger.ErrInvalidReferences, errors.Join(errs...))
	}
	return nil
}

func newResetCommand(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all banks, transactions and fixed entries",
		Long: `Return the ledger to a fresh install: no banks, transactions or fixed
entries and the default categories. Settings are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return errors.New("reset erases all data; run again with --force")
			}
			return a.withStore(func(st *ledger.Store) error {
				st.Dispatch(ledger.LoadData{State: storage.Reset(st.State().Settings)})
				fmt.Fprintln(cmd.OutOrStdout(), "Ledger reset")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "confirm erasing the ledger")
	return cmd
}
