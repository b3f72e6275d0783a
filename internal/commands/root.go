package commands

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/storage"
)

// sqliteFile is the database name used by the sqlite backend.
const sqliteFile = "tally.db"

// skipConfig marks commands that run before a config file exists.
const skipConfig = "skip-config"

// app carries what every subcommand needs once the root has set up.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	a := &app{v: viper.New(), now: now}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal finance ledger: banks, categories, transactions and reports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./tally.yaml, then ~/.tally/tally.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(
		newInitCommand(a),
		newBankCommand(a),
		newCategoryCommand(a),
		newTxCommand(a),
		newFixedCommand(a),
		newSettingsCommand(a),
		newExportCommand(a),
		newImportCommand(a),
		newResetCommand(a),
		newReportCommand(a),
		newStatementCommand(a),
		newSimulateCommand(a),
		newBackupCommand(a),
		newHistoryCommand(a),
		newMaterializeCommand(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfig] == "true" {
		return a.setupLogging(cmd.ErrOrStderr(), a.v.GetString("logging.level"), a.v.GetString("logging.format"))
	}

	cfg, err := config.Resolve(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return a.setupLogging(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
}

func (a *app) setupLogging(w io.Writer, level, format string) error {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	switch format {
	case "console":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	a.logger = slog.New(handler)
	slog.SetDefault(a.logger)
	return nil
}

// withStore opens the configured ledger, runs fn against it and closes it.
func (a *app) withStore(fn func(st *ledger.Store) error) error {
	slot, closeSlot, err := openSlot(a.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSlot(); err != nil {
			a.logger.Warn("closing storage", "error", err)
		}
	}()

	rec := activity.NewRecorder(a.cfg.Data.Dir, a.logger)
	adapter := storage.NewAdapter(slot, a.cfg.Data.Key, a.logger)
	return fn(adapter.Open(ledger.WithObserver(rec.Observe)))
}

func openSlot(cfg *config.Config) (storage.Slot, func() error, error) {
	if cfg.Data.Backend == config.BackendSQLite {
		s, err := storage.NewSQLiteSlot(filepath.Join(cfg.Data.Dir, sqliteFile))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return storage.NewFileSlot(cfg.Data.Dir), func() error { return nil }, nil
}
