package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/inferlab/themata/pkg/themata/internalerr"
	"github.com/inferlab/themata/pkg/themata/persist"
)

// Store is an in-memory implementation of persist.Store for tests.
type Store struct {
	mu      sync.RWMutex
	records map[string]persist.Record
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		records: make(map[string]persist.Record),
	}
}

// Close implements persist.Store.
func (s *Store) Close() error { return nil }

// StoreModel inserts or replaces the record stored under name.
func (s *Store) StoreModel(ctx context.Context, name string, rec persist.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[name] = copyRecord(rec)
	return nil
}

// ListModels returns all stored names in sorted order.
func (s *Store) ListModels(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetModel returns the record stored under name.
func (s *Store) GetModel(ctx context.Context, name string) (persist.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[name]
	if !ok {
		return persist.Record{}, fmt.Errorf("model %q: %w", name, internalerr.ErrNotFound)
	}
	return copyRecord(rec), nil
}

// copyRecord clones the top-level args map so callers cannot mutate
// stored state through a returned or retained record.
func copyRecord(rec persist.Record) persist.Record {
	if rec.Args == nil {
		return rec
	}
	args := make(map[string]any, len(rec.Args))
	for k, v := range rec.Args {
		args[k] = v
	}
	rec.Args = args
	return rec
}
