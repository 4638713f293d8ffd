package model

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/inferlab/themata/pkg/themata/corpus"
	"github.com/inferlab/themata/pkg/themata/internalerr"
	"github.com/inferlab/themata/pkg/themata/persist"
	"github.com/inferlab/themata/pkg/themata/persist/jsonfile"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newRecordID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// Save persists m's reconstruction record under its name via the store its
// corpus is bound to, then saves the corpus itself under location. Concrete
// models call it from their Save methods after writing their own state; args
// must hold everything their constructor needs to rebuild the model.
func Save(ctx context.Context, m Model, location string, args map[string]any) error {
	c := m.Corpus()
	if c == nil {
		return fmt.Errorf("model %s has no corpus: %w", m.Name(), internalerr.ErrInvalidInput)
	}
	store := c.Persistor()
	if store == nil {
		return fmt.Errorf("save %s: %w", m.Name(), internalerr.ErrNoPersistor)
	}

	rec := persist.Record{
		Kind:     m.Kind(),
		Args:     args,
		RecordID: newRecordID(),
		SavedAt:  time.Now().UTC(),
	}
	if err := store.StoreModel(ctx, m.Name(), rec); err != nil {
		return fmt.Errorf("store record for %s: %w", m.Name(), err)
	}

	if err := c.Save(ctx, location); err != nil {
		return fmt.Errorf("save corpus for %s: %w", m.Name(), err)
	}
	return nil
}

// NotFoundError reports a load of a name the catalog does not hold. It
// carries the names the catalog does hold so callers can report what was
// available.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("model %q not found: catalog is empty", e.Name)
	}
	return fmt.Sprintf("model %q not found: catalog holds %s", e.Name, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Unwrap() error { return internalerr.ErrNotFound }

// defaultStore opens the jsonfile catalog at location.
func defaultStore(location string) (persist.Store, error) {
	return jsonfile.Open(location)
}

// Load reconstructs the model stored under name at location, reading the
// default jsonfile catalog there.
func Load(ctx context.Context, location, name string) (Model, error) {
	store, err := defaultStore(location)
	if err != nil {
		return nil, err
	}
	return LoadFrom(ctx, store, location, name)
}

// LoadFrom reconstructs the model stored under name using an explicit
// catalog backend. The record's kind selects the registered constructor;
// an unregistered kind is an error, never a guess. After construction the
// store is re-bound onto the corpus when the corpus supports it, so a
// reloaded model can be saved again.
func LoadFrom(ctx context.Context, store persist.Store, location, name string) (Model, error) {
	rec, err := store.GetModel(ctx, name)
	if err != nil {
		if errors.Is(err, internalerr.ErrNotFound) {
			available, listErr := store.ListModels(ctx)
			if listErr != nil {
				return nil, fmt.Errorf("list stored models: %w", listErr)
			}
			return nil, &NotFoundError{Name: name, Available: available}
		}
		return nil, err
	}

	ctor, ok := constructor(rec.Kind)
	if !ok {
		return nil, fmt.Errorf("record %q has kind %q: %w", name, rec.Kind, internalerr.ErrUnregistered)
	}

	m, err := ctor(ctx, location, rec.Args)
	if err != nil {
		return nil, fmt.Errorf("reconstruct %q as %s: %w", name, rec.Kind, err)
	}

	if setter, ok := m.Corpus().(corpus.PersistorSetter); ok {
		setter.SetPersistor(store)
	}
	return m, nil
}
