// Package kvstore provides the named-record key-value persistence used by the
// engagement ledger.
//
// Backends:
//   - memory: process-local map, for tests and throwaway sessions
//   - file: one JSON file per key under a directory
//   - badger: BadgerDB, batches written in a single transaction
//   - sqlite: a single kv table, batches written in a single transaction
package kvstore

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Entry is one key/value pair of a batch.
type Entry struct {
	Key   string
	Value []byte
}

// Store is a small key-value store.
//
// PutBatch writes entries in order. Transactional backends apply the whole
// batch atomically; the file backend writes each entry durably before the next.
type Store interface {
	Get(key string) ([]byte, error)
	PutBatch(entries ...Entry) error
	Close() error
}

// Put writes a single key.
func Put(s Store, key string, value []byte) error {
	return s.PutBatch(Entry{Key: key, Value: value})
}

// Open returns the backend named by kind rooted at dir.
func Open(kind, dir string) (Store, error) {
	switch kind {
	case "memory":
		return NewMemory(), nil
	case "file", "":
		return NewFileStore(dir), nil
	case "badger":
		return OpenBadger(filepath.Join(dir, "badger"))
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "feedreel.db"))
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}
