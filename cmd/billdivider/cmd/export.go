package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/billdivider/pkg/beancount"
	"github.com/shunichi-ikebuchi/billdivider/pkg/db"
	"github.com/spf13/cobra"
)

var exportDryRun bool

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Append new log entries to Beancount files",
	Long: `Append every log entry that was not exported yet to the Beancount
file of the current month (<export dir>/YYYY/YYYY-MM.beancount).

Exported entries are remembered in the SQLite database, so running export
again only writes entries recorded since the last run.

Example:
  billdivider export --dry-run
  billdivider export`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportDryRun, "dry-run", false, "print transactions without writing")
}

func runExport(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	conn, err := a.database()
	exitOnError(err, "failed to open database")

	out := cmd.OutOrStdout()
	exporter := beancount.NewExporter(
		a.ledger,
		db.NewExportHistory(conn),
		beancount.NewFileSystemRepository(a.paths),
		beancount.NewConverter(a.names, a.cfg.Household.Currency),
	)

	slog.Info("Starting export", "dry_run", exportDryRun, "export_dir", a.paths.GetExportDir())
	result, err := exporter.Export(cmd.Context(), exportDryRun, func(txn string) {
		fmt.Fprintln(out, txn)
	})
	exitOnError(err, "export failed")

	fmt.Fprintf(out, "Exported: %d, skipped: %d, already exported: %d\n", result.Exported, result.Skipped, result.Already)
	if !exportDryRun && result.Exported > 0 {
		fmt.Fprintf(out, "Written to %s\n", result.File)
	}
	slog.Info("Export completed", "exported", result.Exported, "skipped", result.Skipped)
}
