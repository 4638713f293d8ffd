// Package jsonfile implements persist.Store as a single JSON catalog file.
// It is the default backend: human-readable, diff-friendly, and adequate
// for the handful of models a project directory typically holds.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/inferlab/themata/pkg/themata/internalerr"
	"github.com/inferlab/themata/pkg/themata/persist"
)

// CatalogName is the file the catalog is kept in under the store directory.
const CatalogName = "models.json"

// Store keeps all records in one JSON file, rewritten on every update.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open creates the directory if needed and returns a store backed by
// dir/models.json. The catalog file itself is created lazily on first write.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, CatalogName)}, nil
}

func (s *Store) Close() error { return nil }

// StoreModel inserts or replaces the record stored under name.
func (s *Store) StoreModel(ctx context.Context, name string, rec persist.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.read()
	if err != nil {
		return err
	}
	catalog[name] = rec
	return s.write(catalog)
}

// ListModels returns all stored names in sorted order.
func (s *Store) ListModels(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.read()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetModel returns the record stored under name.
func (s *Store) GetModel(ctx context.Context, name string) (persist.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.read()
	if err != nil {
		return persist.Record{}, err
	}
	rec, ok := catalog[name]
	if !ok {
		return persist.Record{}, fmt.Errorf("model %q: %w", name, internalerr.ErrNotFound)
	}
	return rec, nil
}

func (s *Store) read() (map[string]persist.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]persist.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var catalog map[string]persist.Record
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", s.path, err)
	}
	if catalog == nil {
		catalog = map[string]persist.Record{}
	}
	return catalog, nil
}

// write replaces the catalog atomically: a torn write must never leave a
// half-serialized file behind, so write to a sibling temp file and rename.
func (s *Store) write(catalog map[string]persist.Record) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
