package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shunichi-ikebuchi/billdivider/pkg/db"
	"github.com/spf13/cobra"
)

var statsMonth string

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display export statistics",
	Long: `Display statistics about exported log entries.

Shows:
- Number of log entries written to Beancount files
- Number of entries skipped because neither side is a roommate
- Last export timestamp
- The entries exported to one month's file (current month by default)

Example:
  billdivider stats
  billdivider stats --month 2026-09`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsMonth, "month", "", "month of the file to list (YYYY-MM, default current month)")
}

func runStats(cmd *cobra.Command, args []string) {
	month := time.Now()
	if statsMonth != "" {
		var err error
		month, err = time.Parse("2006-01", statsMonth)
		exitOnError(err, "invalid month")
	}

	a := mustApp()
	defer a.Close()

	conn, err := a.database()
	exitOnError(err, "failed to open database")

	history := db.NewExportHistory(conn)
	stats, err := history.GetStats(cmd.Context())
	exitOnError(err, "failed to get statistics")

	entries, err := a.ledger.GetLog(cmd.Context())
	exitOnError(err, "failed to read log")

	file := a.paths.GetMonthFilePath(month)
	records, err := history.GetExportsByFile(cmd.Context(), file)
	exitOnError(err, "failed to get exports for file")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n=== Export Statistics ===")
	fmt.Fprintf(out, "Log entries:       %d\n", len(entries))
	fmt.Fprintf(out, "Exported entries:  %d\n", stats.TotalExported)
	fmt.Fprintf(out, "Skipped entries:   %d\n", stats.TotalSkipped)

	if stats.LastExport.Valid {
		fmt.Fprintf(out, "Last export:       %s\n", stats.LastExport.String)
	} else {
		fmt.Fprintf(out, "Last export:       (never)\n")
	}

	writeFileExports(out, a, file, records)
	fmt.Fprintln(out)

	slog.Info("Statistics displayed successfully")
}

func writeFileExports(out io.Writer, a *app, file string, records []db.ExportRecord) {
	fmt.Fprintf(out, "\n=== %s ===\n", file)
	if len(records) == 0 {
		fmt.Fprintln(out, "(no entries exported to this file)")
		return
	}
	for _, r := range records {
		fmt.Fprintf(out, "#%-4d %-30s %s\n", r.LogIndex+1, r.Text, a.formatter.Amount(r.Amount))
	}
}
