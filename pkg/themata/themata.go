// Package themata ties corpora, fitted topic models and the persisted model
// catalog together behind one project facade.
package themata

import (
	"context"
	"fmt"

	"github.com/inferlab/themata/pkg/themata/corpus"
	"github.com/inferlab/themata/pkg/themata/model"
	"github.com/inferlab/themata/pkg/themata/persist"
	"github.com/inferlab/themata/pkg/themata/persist/jsonfile"
)

// Project binds a location directory to the model catalog stored there.
type Project struct {
	location string
	store    persist.Store
}

// Options configures a Project.
type Options struct {
	// Store overrides the default jsonfile catalog at the project location.
	Store persist.Store
}

// Open prepares a project rooted at location. With zero-value Options the
// catalog is a models.json file inside location.
func Open(location string, opts Options) (*Project, error) {
	st := opts.Store
	if st == nil {
		s, err := jsonfile.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open catalog at %s: %w", location, err)
		}
		st = s
	}
	return &Project{location: location, store: st}, nil
}

// Location returns the project's root directory.
func (p *Project) Location() string { return p.location }

// Store returns the catalog backend.
func (p *Project) Store() persist.Store { return p.store }

// Save persists m under the project location. A corpus without a persistor
// is bound to the project catalog first, so models built from scratch save
// without extra wiring.
func (p *Project) Save(ctx context.Context, m model.Model) error {
	if c := m.Corpus(); c != nil && c.Persistor() == nil {
		if setter, ok := c.(corpus.PersistorSetter); ok {
			setter.SetPersistor(p.store)
		}
	}
	return m.Save(ctx, p.location)
}

// Load reconstructs the model stored under name.
func (p *Project) Load(ctx context.Context, name string) (model.Model, error) {
	return model.LoadFrom(ctx, p.store, p.location, name)
}

// Models lists the catalog's stored model names.
func (p *Project) Models(ctx context.Context) ([]string, error) {
	return p.store.ListModels(ctx)
}

// Close shuts the catalog down.
func (p *Project) Close() error {
	return p.store.Close()
}
