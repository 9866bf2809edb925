package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ExportRecord represents one log entry written to a Beancount file.
type ExportRecord struct {
	ID            int64
	LogIndex      int
	Text          string
	Amount        float64
	BeancountFile string // empty when the entry could not be expressed as a transaction
	ExportedAt    time.Time
}

// ExportHistory manages export history operations.
type ExportHistory struct {
	conn *Connection
}

// NewExportHistory creates a new ExportHistory instance.
func NewExportHistory(conn *Connection) *ExportHistory {
	return &ExportHistory{conn: conn}
}

// RecordExports records a batch of exports in one transaction.
// Log indexes that are already recorded are left untouched.
func (h *ExportHistory) RecordExports(ctx context.Context, records []ExportRecord) error {
	query := `
		INSERT INTO export_history (log_index, text, amount, beancount_file)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(log_index) DO NOTHING
	`

	return h.conn.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare export insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, r.LogIndex, r.Text, r.Amount, r.BeancountFile); err != nil {
				return fmt.Errorf("failed to record export of log entry %d: %w", r.LogIndex, err)
			}
		}
		return nil
	})
}

// GetExportedIndexes returns the set of exported log indexes.
func (h *ExportHistory) GetExportedIndexes(ctx context.Context) (map[int]bool, error) {
	rows, err := h.conn.QueryContext(ctx, `SELECT log_index FROM export_history`)
	if err != nil {
		return nil, fmt.Errorf("failed to get exported indexes: %w", err)
	}
	defer rows.Close()

	indexes := make(map[int]bool)
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("failed to scan log index: %w", err)
		}
		indexes[idx] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exported indexes: %w", err)
	}
	return indexes, nil
}

// GetExportsByFile returns the exports written to a Beancount file, oldest first.
func (h *ExportHistory) GetExportsByFile(ctx context.Context, beancountFile string) ([]ExportRecord, error) {
	query := `
		SELECT id, log_index, text, amount, beancount_file, exported_at
		FROM export_history
		WHERE beancount_file = ?
		ORDER BY log_index ASC
	`

	rows, err := h.conn.QueryContext(ctx, query, beancountFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get exports by file: %w", err)
	}
	defer rows.Close()

	var records []ExportRecord
	for rows.Next() {
		var r ExportRecord
		if err := rows.Scan(&r.ID, &r.LogIndex, &r.Text, &r.Amount, &r.BeancountFile, &r.ExportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// Stats represents export statistics.
type Stats struct {
	TotalExported int
	TotalSkipped  int
	LastExport    sql.NullString
}

// GetStats retrieves export statistics.
func (h *ExportHistory) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats

	err := h.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM export_history WHERE beancount_file != ''`).Scan(&stats.TotalExported)
	if err != nil {
		return nil, fmt.Errorf("failed to get export count: %w", err)
	}

	err = h.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM export_history WHERE beancount_file = ''`).Scan(&stats.TotalSkipped)
	if err != nil {
		return nil, fmt.Errorf("failed to get skipped count: %w", err)
	}

	err = h.conn.QueryRowContext(ctx, `SELECT MAX(exported_at) FROM export_history`).Scan(&stats.LastExport)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last export time: %w", err)
	}

	return &stats, nil
}
