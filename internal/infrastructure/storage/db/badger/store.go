package dbbadger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

// Store is the badger-backed implementation of the abstract key/value
// driver the keystore persists through.
type Store struct {
	db *badger.DB
}

// NewStore opens (or creates if not exists) the badger store on disk. It
// expects a base data dir and an optional logger.
func NewStore(dbDir string, logger badger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening keystore db: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the value stored at key, or nil when the key is absent
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put writes the value at key in one badger transaction
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Delete removes the key. Deleting an absent key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close releases the underlying badger database
func (s *Store) Close() error {
	return s.db.Close()
}
