package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/backup"
	"github.com/cleared-dev/tally/internal/display"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/ledger"
)

func newBackupCommand(a *app) *cobra.Command {
	var git bool
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write today's export into the backup directory",
		Long: `Write the ledger as financeiro-backup-<today>.json into the backup
directory. With git enabled (backup.git in tally.yaml, or --git) the
directory is a git repository and every changed backup is committed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := backup.Options{
				Dir: a.cfg.Backup.Dir,
				Git: a.cfg.Backup.Git || git,
				Author: gitops.Author{
					Name:  a.cfg.Backup.AuthorName,
					Email: a.cfg.Backup.AuthorEmail,
				},
			}
			if opts.Git && !gitops.Available() {
				a.logger.Warn("git not found, backup will not be committed")
				opts.Git = false
			}

			return a.withStore(func(st *ledger.Store) error {
				res, err := backup.Write(st.State(), a.now(), opts)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", res.Path)
				if res.Commit != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Committed %s\n", id.Short(res.Commit))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&git, "git", false, "commit the backup even if backup.git is off")
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List backups, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := backup.List(a.cfg.Backup.Dir)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), display.Muted("no backups yet"))
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	})
	return cmd
}

func newHistoryCommand(a *app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent changes to the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := activity.Read(a.cfg.Data.Dir)
			if err != nil {
				return err
			}
			tbl := display.NewTable(cmd.OutOrStdout(), "TIME", "ACTION", "TARGET", "DETAILS")
			for _, e := range activity.Tail(entries, n) {
				target := e.Target
				if target != "" {
					target = id.Short(target)
				}
				tbl.Row(e.Timestamp.Local().Format(time.DateTime), e.Action, target, e.Details)
			}
			return tbl.Flush()
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", 20, "number of entries (0 for all)")
	return cmd
}

func newMaterializeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "materialize",
		Short: "Record the fixed entries that are due as transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(st *ledger.Store) error {
				txs, err := st.MaterializeDue(a.now())
				if errors.Is(err, ledger.ErrNoScheduler) {
					fmt.Fprintln(cmd.OutOrStdout(), "Fixed-entry scheduling is not configured; nothing recorded")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d transactions\n", len(txs))
				return nil
			})
		},
	}
}
