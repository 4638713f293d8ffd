package model

import (
	"context"
	"sort"
	"sync"
)

// Constructor rebuilds a model of one registered kind from its persisted
// argument mapping. location is the directory the model was saved under.
type Constructor func(ctx context.Context, location string, args map[string]any) (Model, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register makes a constructor available to Load under the given kind.
// Concrete model packages register themselves from init(). Registering a
// nil constructor or the same kind twice panics.
func Register(kind string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if ctor == nil {
		panic("model: Register constructor is nil")
	}
	if _, dup := registry[kind]; dup {
		panic("model: Register called twice for kind " + kind)
	}
	registry[kind] = ctor
}

// Registered returns the registered kinds in sorted order.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	kinds := make([]string, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

func constructor(kind string) (Constructor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ctor, ok := registry[kind]
	return ctor, ok
}
