package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
)

// ErrKeyNotFound is returned when a key has no value.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is a string key/value table. It stores the ledger document under
// ledger.DocumentKey.
type KVStore struct {
	conn *Connection
}

// NewKVStore creates a new KVStore instance.
func NewKVStore(conn *Connection) *KVStore {
	return &KVStore{conn: conn}
}

// Get retrieves the value of key.
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM kv_store WHERE key = ?`

	var value string
	err := s.conn.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

// Set inserts or replaces the value of key.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.conn.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

// Load reads the ledger document.
func (s *KVStore) Load(ctx context.Context) (*ledger.Document, error) {
	value, err := s.Get(ctx, ledger.DocumentKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ledger.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	return ledger.DecodeDocument([]byte(value))
}

// Save writes the whole ledger document with a single upsert.
func (s *KVStore) Save(ctx context.Context, doc *ledger.Document) error {
	data, err := ledger.EncodeDocument(doc)
	if err != nil {
		return err
	}
	return s.Set(ctx, ledger.DocumentKey, string(data))
}

var _ ledger.Store = (*KVStore)(nil)
