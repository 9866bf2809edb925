package beancount

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shunichi-ikebuchi/billdivider/pkg/db"
	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
)

// DocumentSource provides the ledger document to export.
type DocumentSource interface {
	Document(ctx context.Context) (*ledger.Document, error)
}

// History remembers which log entries were exported.
type History interface {
	GetExportedIndexes(ctx context.Context) (map[int]bool, error)
	RecordExports(ctx context.Context, records []db.ExportRecord) error
}

// ExportResult summarizes one export run.
type ExportResult struct {
	File     string
	Exported int
	Skipped  int
	Already  int
}

// Exporter appends new log entries to the Beancount file of the export date.
type Exporter struct {
	source    DocumentSource
	history   History
	repo      Repository
	converter *Converter
	now       func() time.Time
}

// NewExporter creates a new Exporter.
func NewExporter(source DocumentSource, history History, repo Repository, converter *Converter) *Exporter {
	return &Exporter{
		source:    source,
		history:   history,
		repo:      repo,
		converter: converter,
		now:       time.Now,
	}
}

// Export writes every log entry not yet recorded in the history. With dryRun
// the formatted transactions are passed to print and nothing is written.
func (e *Exporter) Export(ctx context.Context, dryRun bool, print func(string)) (*ExportResult, error) {
	doc, err := e.source.Document(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	exported, err := e.history.GetExportedIndexes(ctx)
	if err != nil {
		return nil, err
	}

	date := e.now()
	result := &ExportResult{File: e.repo.MonthFilePath(date)}
	var records []db.ExportRecord

	for i, entry := range doc.Log {
		if exported[i] {
			result.Already++
			continue
		}

		record := db.ExportRecord{LogIndex: i, Text: entry.Text, Amount: entry.Amount}
		txn, ok := e.converter.ConvertEntry(i, entry, date)
		if !ok {
			slog.Warn("Skipping log entry without a roommate side", "log_index", i, "text", entry.Text)
			result.Skipped++
			records = append(records, record)
			continue
		}

		formatted := e.converter.FormatTransaction(txn)
		if dryRun {
			if print != nil {
				print(formatted)
			}
			result.Exported++
			continue
		}

		if err := e.repo.AppendTransaction(date, formatted); err != nil {
			// Keep what was already written consistent with the history.
			if recErr := e.history.RecordExports(ctx, records); recErr != nil {
				slog.Error("Failed to record partial export", "error", recErr)
			}
			return result, fmt.Errorf("failed to append log entry %d: %w", i, err)
		}
		record.BeancountFile = result.File
		records = append(records, record)
		result.Exported++
	}

	if dryRun || len(records) == 0 {
		return result, nil
	}

	if err := e.history.RecordExports(ctx, records); err != nil {
		return result, err
	}
	return result, nil
}
