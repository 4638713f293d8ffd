// Package corpus defines the document collection contract the modeling core
// consumes, plus an in-memory implementation and ingest helpers for building
// collections from raw text, JSONL files, and HTML fragments.
package corpus

import (
	"context"
	"iter"

	"gonum.org/v1/gonum/mat"

	"github.com/inferlab/themata/pkg/themata/persist"
)

// TermCount is one entry of a document's bag of words.
type TermCount struct {
	TermID int
	Count  int
}

// Corpus is the tokenized document collection a model was trained on.
//
// Term ids are dense indices 0..V-1 into the vocabulary, so Vocab()[id] and
// Term(id) agree. Documents() must yield documents in a stable order, and
// that order must match the row order of any document-topic matrix built
// from the corpus.
type Corpus interface {
	// Term returns the term for a vocabulary id.
	Term(id int) (string, bool)
	// Vocab returns the full vocabulary in term-id order.
	Vocab() []string
	// Documents iterates (document id, bag of words) pairs in a stable order.
	Documents() iter.Seq2[string, []TermCount]
	// Save persists the corpus under location.
	Save(ctx context.Context, location string) error
	// Persistor returns the store this corpus is bound to, or nil.
	Persistor() persist.Store
}

// TermTopicCacher is an optional capability: a corpus that carries a cached
// term-topic matrix from a previous training run exposes it here.
type TermTopicCacher interface {
	TermTopicMatrix() (*mat.Dense, bool)
}

// PersistorSetter is an optional capability used by the load protocol to
// re-bind a catalog onto a freshly reloaded corpus.
type PersistorSetter interface {
	SetPersistor(persist.Store)
}
