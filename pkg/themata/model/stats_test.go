package model

import (
	"context"
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/inferlab/themata/pkg/themata/corpus"
	"github.com/inferlab/themata/pkg/themata/internalerr"
)

// fakeModel satisfies Model over any corpus and matrices, for exercising
// the shared operations without training anything.
type fakeModel struct {
	c    corpus.Corpus
	ttd  *mat.Dense
	dtd  *mat.Dense
	kind string
	name string
	args map[string]any
}

func (f *fakeModel) Corpus() corpus.Corpus      { return f.c }
func (f *fakeModel) TopicTermDists() *mat.Dense { return f.ttd }
func (f *fakeModel) DocTopicDists() *mat.Dense  { return f.dtd }
func (f *fakeModel) Kind() string               { return f.kind }
func (f *fakeModel) Name() string               { return f.name }

func (f *fakeModel) TopWords(topn int) ([][]WeightedTerm, error) {
	return TopTerms(f.ttd, f.c.Vocab(), topn)
}

func (f *fakeModel) Save(ctx context.Context, location string) error {
	return Save(ctx, f, location, f.args)
}

// twoDocCorpus builds the collection {doc0: a a b, doc1: a c c c} used
// throughout: vocab [a b c], frequencies {a:3 b:1 c:4}, lengths {3, 4}.
func twoDocCorpus() *corpus.Collection {
	c := corpus.NewCollection()
	c.AddDocument("doc0", []string{"a", "a", "b"})
	c.AddDocument("doc1", []string{"a", "c", "c", "c"})
	return c
}

func TestTermFrequency(t *testing.T) {
	m := &fakeModel{c: twoDocCorpus()}

	freq, err := TermFrequency(m)
	if err != nil {
		t.Fatalf("TermFrequency: %v", err)
	}
	want := map[int]int{0: 3, 1: 1, 2: 4}
	if len(freq) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), freq)
	}
	for id, n := range want {
		if freq[id] != n {
			t.Errorf("freq[%d] = %d, want %d", id, freq[id], n)
		}
	}
}

func TestDocLengths(t *testing.T) {
	m := &fakeModel{c: twoDocCorpus()}

	lengths, err := DocLengths(m)
	if err != nil {
		t.Fatalf("DocLengths: %v", err)
	}
	if len(lengths) != 2 {
		t.Fatalf("expected 2 entries, got %v", lengths)
	}
	if lengths["doc0"] != 3 || lengths["doc1"] != 4 {
		t.Errorf("expected {doc0:3 doc1:4}, got %v", lengths)
	}
}

func TestVocab(t *testing.T) {
	m := &fakeModel{c: twoDocCorpus()}

	vocab := Vocab(m)
	if len(vocab) != 3 || vocab[0] != "a" || vocab[1] != "b" || vocab[2] != "c" {
		t.Errorf("expected [a b c], got %v", vocab)
	}
}

func TestTermData(t *testing.T) {
	// 2 topics x 3 terms
	ttd := mat.NewDense(2, 3, []float64{
		0.7, 0.2, 0.1,
		0.1, 0.3, 0.6,
	})
	m := &fakeModel{c: twoDocCorpus(), ttd: ttd}

	rows, err := TermData(m)
	if err != nil {
		t.Fatalf("TermData: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].Term != "a" || rows[0].Frequency != 3 {
		t.Errorf("row 0 mismatch: %+v", rows[0])
	}
	if rows[2].Term != "c" || rows[2].Frequency != 4 {
		t.Errorf("row 2 mismatch: %+v", rows[2])
	}
	if rows[1].Weights[0] != 0.2 || rows[1].Weights[1] != 0.3 {
		t.Errorf("row 1 weights mismatch: %+v", rows[1].Weights)
	}
}

func TestTermDataAlignmentMismatch(t *testing.T) {
	// 4 term columns against a 3-term vocabulary
	ttd := mat.NewDense(2, 4, make([]float64, 8))
	m := &fakeModel{c: twoDocCorpus(), ttd: ttd}

	_, err := TermData(m)
	if !errors.Is(err, internalerr.ErrAlignment) {
		t.Errorf("expected ErrAlignment, got %v", err)
	}
}

func TestTermDataNotFitted(t *testing.T) {
	m := &fakeModel{c: twoDocCorpus()}

	_, err := TermData(m)
	if !errors.Is(err, internalerr.ErrNotFitted) {
		t.Errorf("expected ErrNotFitted, got %v", err)
	}
}

func TestDocData(t *testing.T) {
	// 2 docs x 2 topics
	dtd := mat.NewDense(2, 2, []float64{
		0.9, 0.1,
		0.2, 0.8,
	})
	m := &fakeModel{c: twoDocCorpus(), dtd: dtd}

	rows, err := DocData(m)
	if err != nil {
		t.Fatalf("DocData: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].DocID != "doc0" || rows[0].Length != 3 {
		t.Errorf("row 0 mismatch: %+v", rows[0])
	}
	if rows[1].DocID != "doc1" || rows[1].Length != 4 {
		t.Errorf("row 1 mismatch: %+v", rows[1])
	}
	if rows[0].Weights[0] != 0.9 || rows[1].Weights[1] != 0.8 {
		t.Errorf("weights mismatch: %+v / %+v", rows[0].Weights, rows[1].Weights)
	}
}

func TestDocDataRowCountMismatch(t *testing.T) {
	// 3 matrix rows against a 2 document corpus
	dtd := mat.NewDense(3, 2, make([]float64, 6))
	m := &fakeModel{c: twoDocCorpus(), dtd: dtd}

	_, err := DocData(m)
	if !errors.Is(err, internalerr.ErrAlignment) {
		t.Errorf("expected ErrAlignment for extra rows, got %v", err)
	}

	// 1 matrix row against a 2 document corpus
	m.dtd = mat.NewDense(1, 2, make([]float64, 2))
	_, err = DocData(m)
	if !errors.Is(err, internalerr.ErrAlignment) {
		t.Errorf("expected ErrAlignment for missing rows, got %v", err)
	}
}

func TestTermTopicMatrixCapability(t *testing.T) {
	c := twoDocCorpus()
	m := &fakeModel{c: c}

	if _, ok := TermTopicMatrix(m); ok {
		t.Error("expected no cached matrix on a fresh collection")
	}

	cached := mat.NewDense(3, 2, make([]float64, 6))
	c.SetTermTopicMatrix(cached)

	got, ok := TermTopicMatrix(m)
	if !ok {
		t.Fatal("expected cached matrix after SetTermTopicMatrix")
	}
	if got != cached {
		t.Error("expected the same matrix back")
	}
}
