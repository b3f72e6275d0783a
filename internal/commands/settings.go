package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/display"
	"github.com/cleared-dev/tally/internal/ledger"
)

func newSettingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change user preferences",
	}
	cmd.AddCommand(newSettingsShowCommand(a), newSettingsSetCommand(a))
	return cmd
}

func newSettingsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(st *ledger.Store) error {
				s := st.State().Settings
				tbl := display.NewTable(cmd.OutOrStdout(), "SETTING", "VALUE")
				tbl.Row("currency", s.Currency)
				tbl.Row("language", s.Language)
				tbl.Row("dark-theme", display.YesNo(s.DarkTheme))
				tbl.Row("first-run", display.YesNo(s.FirstRun))
				return tbl.Flush()
			})
		},
	}
}

func newSettingsSetCommand(a *app) *cobra.Command {
	var (
		currency, language  string
		darkTheme, firstRun bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings; flags not given keep their value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !flags.Changed("currency") && !flags.Changed("language") && !flags.Changed("dark-theme") && !flags.Changed("first-run") {
				return fmt.Errorf("nothing to change")
			}
			return a.withStore(func(st *ledger.Store) error {
				s := st.State().Settings
				if flags.Changed("currency") {
					if !display.KnownCurrency(currency) {
						return fmt.Errorf("unknown currency %q", currency)
					}
					s.Currency = strings.ToUpper(strings.TrimSpace(currency))
				}
				if flags.Changed("language") {
					lang, err := requireText("language", language)
					if err != nil {
						return err
					}
					s.Language = lang
				}
				if flags.Changed("dark-theme") {
					s.DarkTheme = darkTheme
				}
				if flags.Changed("first-run") {
					s.FirstRun = firstRun
				}
				st.Dispatch(ledger.UpdateSettings{Settings: s})
				fmt.Fprintln(cmd.OutOrStdout(), "Settings updated")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code, e.g. BRL")
	cmd.Flags().StringVar(&language, "language", "", "language tag, e.g. pt-BR")
	cmd.Flags().BoolVar(&darkTheme, "dark-theme", false, "prefer the dark theme")
	cmd.Flags().BoolVar(&firstRun, "first-run", false, "show the first-run welcome")
	return cmd
}
