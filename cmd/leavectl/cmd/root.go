package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the leavectl command tree
func NewRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "leavectl",
		Short:         "Inspect leave catalogs, plan leave and total attendance hours offline",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetLogLoggerLevel(level)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log ledger activity to stderr.")

	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newHoursCmd())

	return rootCmd
}
