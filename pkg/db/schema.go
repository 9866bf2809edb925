// Package db provides SQLite storage for the ledger document and the
// Beancount export history.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Key/value documents
-- Holds the ledger document as one JSON value under a fixed key
CREATE TABLE IF NOT EXISTS kv_store (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Export history table
-- Tracks which log entries have been appended to Beancount files
CREATE TABLE IF NOT EXISTS export_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    log_index INTEGER NOT NULL UNIQUE, -- position in the ledger log
    text TEXT NOT NULL,
    amount REAL NOT NULL,
    beancount_file TEXT NOT NULL,      -- empty when the entry was skipped
    exported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_export_history_file
    ON export_history(beancount_file);
`

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.db.Exec(Schema); err != nil {
		return err
	}
	return nil
}
