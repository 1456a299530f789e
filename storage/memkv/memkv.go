// Package memkv is an in-memory storage.Store, used by the executor's
// own test suite and embeddable by callers that want no disk I/O at
// all. Save still appears whole-blob atomic to observers, even though
// there is no second, on-disk copy to keep consistent.
package memkv

import (
	"sort"
	"sync"

	"github.com/SamsonMokaya/pesapal-challenge/dberr"
	"github.com/SamsonMokaya/pesapal-challenge/storage"
)

// Store holds every table's snapshot in a guarded map. Save replaces a
// table's whole entry, matching the whole-blob-replace contract every
// Store implementation must honor.
type Store struct {
	mu     sync.RWMutex
	tables map[string]storage.Snapshot
}

// New creates an empty Store.
func New() *Store {
	return &Store{tables: make(map[string]storage.Snapshot)}
}

func (s *Store) Exists(table string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tables[table]
	return ok, nil
}

func (s *Store) Create(table string, snap storage.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table]; ok {
		return dberr.New(dberr.Storage, "table %q already exists", table)
	}
	s.tables[table] = snap.Clone()
	return nil
}

func (s *Store) Load(table string) (storage.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.tables[table]
	if !ok {
		return storage.Snapshot{}, dberr.New(dberr.Schema, "table %q does not exist", table)
	}
	return snap.Clone(), nil
}

func (s *Store) Save(table string, snap storage.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table]; !ok {
		return dberr.New(dberr.Schema, "table %q does not exist", table)
	}
	s.tables[table] = snap.Clone()
	return nil
}

func (s *Store) Drop(table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table]; !ok {
		return dberr.New(dberr.Schema, "table %q does not exist", table)
	}
	delete(s.tables, table)
	return nil
}

func (s *Store) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
