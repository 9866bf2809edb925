// Package boltstore keeps the ledger document in a bbolt database file.
package boltstore

import (
	"context"
	"fmt"

	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
	bolt "go.etcd.io/bbolt"
)

// Bucket is the bucket holding the ledger document.
const Bucket = "billdivider"

// Store represents the bbolt database wrapper.
type Store struct {
	db  *bolt.DB
	key []byte
}

// New opens (or creates) the database at dbPath and initializes the bucket.
func New(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(Bucket)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", Bucket, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, key: []byte(ledger.DocumentKey)}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads and decodes the document.
func (s *Store) Load(ctx context.Context) (*ledger.Document, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(Bucket))
		if b == nil {
			return fmt.Errorf("bucket %s not found", Bucket)
		}

		v := b.Get(s.key)
		if v == nil {
			return ledger.ErrDocumentNotFound
		}
		// Copy the value since it's only valid during the transaction.
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ledger.DecodeDocument(data)
}

// Save writes the whole document in one transaction.
func (s *Store) Save(ctx context.Context, doc *ledger.Document) error {
	data, err := ledger.EncodeDocument(doc)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(Bucket))
		if b == nil {
			return fmt.Errorf("bucket %s not found", Bucket)
		}
		return b.Put(s.key, data)
	})
}

// PutRaw stores raw bytes under the document key.
func (s *Store) PutRaw(data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(Bucket)).Put(s.key, data)
	})
}

var _ ledger.Store = (*Store)(nil)
