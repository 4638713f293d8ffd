// Package sqlite implements persist.Store on a SQLite database. It is the
// backend to reach for when many models share one catalog or when concurrent
// writers are expected.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/inferlab/themata/pkg/themata/internalerr"
	"github.com/inferlab/themata/pkg/themata/persist"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite-backed catalog with WAL mode enabled,
// creating the schema if it does not exist yet.
func Open(ctx context.Context, path string) (persist.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS models (
	name TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	args TEXT NOT NULL,
	record_id TEXT,
	saved_at TEXT
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// StoreModel inserts or replaces the record stored under name
func (s *sqliteStore) StoreModel(ctx context.Context, name string, rec persist.Record) error {
	argsJSON, err := json.Marshal(rec.Args)
	if err != nil {
		return fmt.Errorf("encode args for %q: %w", name, err)
	}

	var savedAt string
	if !rec.SavedAt.IsZero() {
		savedAt = rec.SavedAt.UTC().Format(time.RFC3339)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO models (name, kind, args, record_id, saved_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	kind=excluded.kind,
	args=excluded.args,
	record_id=excluded.record_id,
	saved_at=excluded.saved_at;
`, name, rec.Kind, string(argsJSON), rec.RecordID, savedAt)
	return err
}

// ListModels returns all stored names in sorted order
func (s *sqliteStore) ListModels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM models ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetModel returns the record stored under name
func (s *sqliteStore) GetModel(ctx context.Context, name string) (persist.Record, error) {
	var (
		rec      persist.Record
		argsJSON string
		savedAt  string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT kind, args, record_id, saved_at
FROM models
WHERE name = ?;
`, name).Scan(&rec.Kind, &argsJSON, &rec.RecordID, &savedAt)
	if err == sql.ErrNoRows {
		return persist.Record{}, fmt.Errorf("model %q: %w", name, internalerr.ErrNotFound)
	}
	if err != nil {
		return persist.Record{}, err
	}

	if err := json.Unmarshal([]byte(argsJSON), &rec.Args); err != nil {
		return persist.Record{}, fmt.Errorf("decode args for %q: %w", name, err)
	}
	if savedAt != "" {
		if parsed, perr := time.Parse(time.RFC3339, savedAt); perr == nil {
			rec.SavedAt = parsed
		}
	}
	return rec, nil
}
