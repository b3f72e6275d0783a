package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/storage"
)

func newInitCommand(a *app) *cobra.Command {
	var backend string
	var git bool

	cmd := &cobra.Command{
		Use:         "init [directory]",
		Short:       "Initialize a new ledger",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := a.runInit(absDir, backend, git); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized tally ledger at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.BackendFile, "storage backend (file, sqlite)")
	cmd.Flags().BoolVar(&git, "git", false, "commit every backup to a git repository")

	return cmd
}

func (a *app) runInit(dir, backend string, git bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default()
	cfg.Data.Backend = backend
	cfg.Backup.Git = git
	if err := cfg.Validate(); err != nil {
		return err
	}

	for _, d := range []string{cfg.Backup.Dir, importer.Dir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	// Seed the slot so the first run starts from a saved state.
	resolved := *cfg
	resolved.Data.Dir = dir
	slot, closeSlot, err := openSlot(&resolved)
	if err != nil {
		return err
	}
	defer closeSlot()
	if err := storage.NewAdapter(slot, cfg.Data.Key, a.logger).Save(ledger.InitialState()); err != nil {
		return err
	}

	if git {
		if !gitops.Available() {
			a.logger.Warn("git not found, backups will not be committed")
			return nil
		}
		if err := gitops.Init(filepath.Join(dir, cfg.Backup.Dir)); err != nil {
			return err
		}
	}
	return nil
}
