// Package model defines the contract every trained topic model satisfies,
// plus the operations that work uniformly across model types: top-word
// selection, corpus-derived statistics, and the save/load protocol with its
// constructor registry.
package model

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/inferlab/themata/pkg/themata/corpus"
)

// WeightedTerm is one entry of a topic's top-word list.
type WeightedTerm struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Model is the result every training run produces, whatever the algorithm.
//
// TopicTermDists is topics x terms: row k is topic k's distribution over the
// vocabulary, columns in term-id order. DocTopicDists is documents x topics:
// row i is document i's topic mixture, rows in the order the corpus yields
// documents. Both matrices may be nil before fitting.
type Model interface {
	// Corpus returns the collection the model was trained on.
	Corpus() corpus.Corpus
	// TopicTermDists returns the topics x terms distribution matrix.
	TopicTermDists() *mat.Dense
	// DocTopicDists returns the documents x topics distribution matrix.
	DocTopicDists() *mat.Dense
	// TopWords returns, per topic, the topn heaviest terms in descending
	// weight order.
	TopWords(topn int) ([][]WeightedTerm, error)
	// Kind returns the registered type identifier, e.g. "lda".
	Kind() string
	// Name returns the catalog name encoding kind and parameters,
	// e.g. "lda_3_topics". Records are stored and looked up under it.
	Name() string
	// Save persists the model together with its corpus under location.
	Save(ctx context.Context, location string) error
}
