package cmd

import (
	"github.com/spf13/cobra"
)

var logLimit int

// logCmd represents the log command.
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the payment log",
	Long: `Show every recorded payment in the order it was recorded.

Example:
  billdivider log
  billdivider log --last 10`,
	Args: cobra.NoArgs,
	Run:  runLog,
}

func init() {
	logCmd.Flags().IntVar(&logLimit, "last", 0, "show only the last N entries")
}

func runLog(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	entries, err := a.ledger.GetLog(cmd.Context())
	exitOnError(err, "failed to read log")

	if logLimit > 0 && len(entries) > logLimit {
		entries = entries[len(entries)-logLimit:]
	}
	exitOnError(a.formatter.WriteLog(cmd.OutOrStdout(), entries), "failed to write log")
}
