// Package cmd provides CLI commands for billdivider.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	debug        bool
	storeBackend string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "billdivider",
	Short: "Split shared household bills between roommates",
	Long: `billdivider keeps a ledger of what each roommate has paid toward
shared expenses, shows who owes what relative to the household average,
and keeps an audit log of every payment.

It supports:
- Recording payments between roommates or to/from the household
- Debts, totals and averages per roommate
- Suggested transfers to settle up
- Exporting the log to Beancount files
- Serving the ledger over HTTP

Example:
  billdivider init
  billdivider pay "dinner" alice bob 30
  billdivider balances`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug || os.Getenv("DEBUG") == "true" {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "ledger store: sqlite, bolt or memory (overrides BILLDIVIDER_STORE)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(roommateCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(contributionCmd)
	rootCmd.AddCommand(debtCmd)
	rootCmd.AddCommand(totalCmd)
	rootCmd.AddCommand(averageCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(balancesCmd)
	rootCmd.AddCommand(settleCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
