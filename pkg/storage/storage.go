// Package storage persists conversion results between API calls. Each
// stored document is an opaque byte blob keyed by a generated ksuid.
package storage

import (
	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

// DocumentStore is a pebble-backed blob store for converted documents.
type DocumentStore struct {
	db *pebble.DB
}

// NewDocumentStore opens (or creates) the store at path.
func NewDocumentStore(path string) (*DocumentStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &DocumentStore{db: db}, nil
}

// Put stores a document and returns its generated id.
func (s *DocumentStore) Put(data []byte) (*ksuid.KSUID, error) {
	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), data, pebble.NoSync); err != nil {
		return nil, err
	}
	return &id, nil
}

// Get returns the document stored under id. The returned slice is a copy
// and stays valid after further store operations.
func (s *DocumentStore) Get(id *ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	out := append([]byte(nil), data...)
	return out, nil
}

// Delete removes the document stored under id.
func (s *DocumentStore) Delete(id *ksuid.KSUID) error {
	return s.db.Delete(id.Bytes(), pebble.NoSync)
}

// Close closes the underlying database.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}
