package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/inferlab/themata/pkg/themata/internalerr"
	"github.com/inferlab/themata/pkg/themata/persist"
)

// FileName is the file a Collection is saved to under its location.
const FileName = "corpus.json"

// Collection is the in-memory Corpus implementation. Term ids are assigned
// in first-seen order, so rebuilding a collection from the same documents in
// the same order yields identical ids.
type Collection struct {
	terms    []string
	termIDs  map[string]int
	docOrder []string
	docs     map[string]map[int]int

	ttm   *mat.Dense
	store persist.Store
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		termIDs: make(map[string]int),
		docs:    make(map[string]map[int]int),
	}
}

// AddDocument adds a tokenized document under id, assigning vocabulary ids
// to unseen tokens as they appear. Adding an id twice replaces the earlier
// bag; vocabulary ids already assigned are never reused or removed.
func (c *Collection) AddDocument(id string, tokens []string) {
	if _, exists := c.docs[id]; !exists {
		c.docOrder = append(c.docOrder, id)
	}
	bag := make(map[int]int, len(tokens))
	for _, tok := range tokens {
		termID, ok := c.termIDs[tok]
		if !ok {
			termID = len(c.terms)
			c.terms = append(c.terms, tok)
			c.termIDs[tok] = termID
		}
		bag[termID]++
	}
	c.docs[id] = bag
}

// Term returns the term for a vocabulary id.
func (c *Collection) Term(id int) (string, bool) {
	if id < 0 || id >= len(c.terms) {
		return "", false
	}
	return c.terms[id], true
}

// Vocab returns the vocabulary in term-id order.
func (c *Collection) Vocab() []string {
	out := make([]string, len(c.terms))
	copy(out, c.terms)
	return out
}

// Documents iterates documents in insertion order; each bag is sorted by
// ascending term id.
func (c *Collection) Documents() iter.Seq2[string, []TermCount] {
	return func(yield func(string, []TermCount) bool) {
		for _, id := range c.docOrder {
			if !yield(id, c.bag(id)) {
				return
			}
		}
	}
}

func (c *Collection) bag(id string) []TermCount {
	counts := c.docs[id]
	out := make([]TermCount, 0, len(counts))
	for termID, n := range counts {
		out = append(out, TermCount{TermID: termID, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TermID < out[j].TermID })
	return out
}

// Persistor returns the store this collection is bound to, or nil.
func (c *Collection) Persistor() persist.Store { return c.store }

// SetPersistor binds a store to the collection.
func (c *Collection) SetPersistor(s persist.Store) { c.store = s }

// TermTopicMatrix returns the cached term-topic matrix, if one was set.
func (c *Collection) TermTopicMatrix() (*mat.Dense, bool) {
	if c.ttm == nil {
		return nil, false
	}
	return c.ttm, true
}

// SetTermTopicMatrix caches a term-topic matrix on the collection. The cache
// is in-memory only; Save does not serialize it.
func (c *Collection) SetTermTopicMatrix(m *mat.Dense) { c.ttm = m }

type savedCorpus struct {
	Vocabulary []string   `json:"vocabulary"`
	Documents  []savedDoc `json:"documents"`
}

type savedDoc struct {
	ID    string   `json:"id"`
	Terms [][2]int `json:"terms"` // [term id, count] pairs, ascending by id
}

// Save writes the collection to location/corpus.json, creating location if
// needed. The write goes through a temp file and rename so a crash never
// leaves a torn corpus behind.
func (c *Collection) Save(ctx context.Context, location string) error {
	if err := os.MkdirAll(location, 0o755); err != nil {
		return fmt.Errorf("create corpus directory: %w", err)
	}

	saved := savedCorpus{
		Vocabulary: c.terms,
		Documents:  make([]savedDoc, 0, len(c.docOrder)),
	}
	for _, id := range c.docOrder {
		bag := c.bag(id)
		pairs := make([][2]int, len(bag))
		for i, tc := range bag {
			pairs[i] = [2]int{tc.TermID, tc.Count}
		}
		saved.Documents = append(saved.Documents, savedDoc{ID: id, Terms: pairs})
	}

	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}

	path := filepath.Join(location, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace corpus: %w", err)
	}
	return nil
}

// Load reads a collection back from location/corpus.json.
func Load(ctx context.Context, location string) (*Collection, error) {
	data, err := os.ReadFile(filepath.Join(location, FileName))
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var saved savedCorpus
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("decode corpus at %s: %w", location, err)
	}

	c := NewCollection()
	c.terms = saved.Vocabulary
	for id, term := range c.terms {
		c.termIDs[term] = id
	}
	for _, doc := range saved.Documents {
		bag := make(map[int]int, len(doc.Terms))
		for _, pair := range doc.Terms {
			termID, count := pair[0], pair[1]
			if termID < 0 || termID >= len(c.terms) {
				return nil, fmt.Errorf("document %q references term id %d outside vocabulary of %d: %w",
					doc.ID, termID, len(c.terms), internalerr.ErrInvalidInput)
			}
			if count > 0 {
				bag[termID] = count
			}
		}
		c.docOrder = append(c.docOrder, doc.ID)
		c.docs[doc.ID] = bag
	}
	return c, nil
}
