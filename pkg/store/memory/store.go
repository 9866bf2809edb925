// Package memory provides an in-memory ledger.Store.
package memory

import (
	"context"
	"sync"

	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
)

// Store keeps the encoded document in memory. Every Load decodes a fresh copy,
// so callers never share state with the store.
type Store struct {
	mu    sync.Mutex
	data  []byte
	saves int
	err   error
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Load decodes the stored document.
func (s *Store) Load(ctx context.Context) (*ledger.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if s.data == nil {
		return nil, ledger.ErrDocumentNotFound
	}
	return ledger.DecodeDocument(s.data)
}

// Save replaces the stored document.
func (s *Store) Save(ctx context.Context, doc *ledger.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	data, err := ledger.EncodeDocument(doc)
	if err != nil {
		return err
	}
	s.data = data
	s.saves++
	return nil
}

// Set replaces the raw stored bytes. A nil slice removes the document.
func (s *Store) Set(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw == nil {
		s.data = nil
		return
	}
	s.data = append([]byte(nil), raw...)
}

// Raw returns a copy of the stored bytes, or nil when empty.
func (s *Store) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return nil
	}
	return append([]byte(nil), s.data...)
}

// Saves returns how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Fail makes every later Load and Save return err. A nil err clears it.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Compile-time check: ensure Store implements ledger.Store.
var _ ledger.Store = (*Store)(nil)
