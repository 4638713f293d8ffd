package persist

import (
	"context"
	"time"
)

// Record is a persisted model configuration: the type identifier of the
// model that wrote it plus the constructor arguments needed to rebuild it.
//
// Args must survive a round-trip through the backing serialization. All
// backends store it as JSON, so values are limited to strings, numbers
// (decoded back as float64), booleans, and nested maps/slices of those.
type Record struct {
	Kind     string         `json:"kind"`
	Args     map[string]any `json:"args"`
	RecordID string         `json:"record_id,omitempty"`
	SavedAt  time.Time      `json:"saved_at,omitempty"`
}

// Store is the catalog of named model configurations at a location
type Store interface {
	Close() error

	// StoreModel inserts or replaces the record stored under name
	StoreModel(ctx context.Context, name string, rec Record) error
	// ListModels returns all stored names in sorted order
	ListModels(ctx context.Context) ([]string, error)
	// GetModel returns the record stored under name; the returned error
	// satisfies errors.Is(err, internalerr.ErrNotFound) when name is absent
	GetModel(ctx context.Context, name string) (Record, error)
}
