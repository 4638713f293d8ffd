package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/inferlab/themata/pkg/themata/corpus"
	"github.com/inferlab/themata/pkg/themata/internalerr"
)

// TermRow is one row of the merged term table: a term, its total corpus
// frequency, and its weight in every topic. Rows are in term-id order.
type TermRow struct {
	TermID    int
	Term      string
	Frequency int
	Weights   []float64 // indexed by topic
}

// DocRow is one row of the merged document table: a document, its token
// count, and its topic mixture. Rows follow the corpus iteration order.
type DocRow struct {
	DocID   string
	Length  int
	Weights []float64 // indexed by topic
}

// Vocab returns the model corpus's vocabulary in term-id order.
func Vocab(m Model) []string {
	return m.Corpus().Vocab()
}

// TermFrequency sums each term's occurrences across the whole corpus in a
// single pass. Terms that appear in no document are simply absent from the
// map; callers reading through the vocabulary see them as zero.
func TermFrequency(m Model) (map[int]int, error) {
	vocabSize := len(m.Corpus().Vocab())
	freq := make(map[int]int, vocabSize)
	for docID, bag := range m.Corpus().Documents() {
		for _, tc := range bag {
			if tc.TermID < 0 || tc.TermID >= vocabSize {
				return nil, fmt.Errorf("document %q references term id %d outside vocabulary of %d: %w",
					docID, tc.TermID, vocabSize, internalerr.ErrAlignment)
			}
			freq[tc.TermID] += tc.Count
		}
	}
	return freq, nil
}

// DocLengths returns each document's token count keyed by document id.
func DocLengths(m Model) (map[string]int, error) {
	lengths := make(map[string]int)
	for docID, bag := range m.Corpus().Documents() {
		if _, dup := lengths[docID]; dup {
			return nil, fmt.Errorf("corpus yields document id %q twice: %w", docID, internalerr.ErrAlignment)
		}
		total := 0
		for _, tc := range bag {
			total += tc.Count
		}
		lengths[docID] = total
	}
	return lengths, nil
}

// TermData merges the vocabulary, per-term corpus frequencies, and per-topic
// weights into one table keyed by term id.
func TermData(m Model) ([]TermRow, error) {
	ttd := m.TopicTermDists()
	if ttd == nil {
		return nil, fmt.Errorf("no topic-term distributions: %w", internalerr.ErrNotFitted)
	}
	vocab := m.Corpus().Vocab()
	topics, terms := ttd.Dims()
	if terms != len(vocab) {
		return nil, fmt.Errorf("topic-term matrix has %d term columns, vocabulary has %d terms: %w",
			terms, len(vocab), internalerr.ErrAlignment)
	}

	freq, err := TermFrequency(m)
	if err != nil {
		return nil, err
	}

	rows := make([]TermRow, terms)
	for id := 0; id < terms; id++ {
		weights := make([]float64, topics)
		for k := 0; k < topics; k++ {
			weights[k] = ttd.At(k, id)
		}
		rows[id] = TermRow{
			TermID:    id,
			Term:      vocab[id],
			Frequency: freq[id],
			Weights:   weights,
		}
	}
	return rows, nil
}

// DocData merges document ids, token counts, and topic mixtures into one
// table in corpus iteration order, which is also the row order of the
// document-topic matrix. A corpus that yields more or fewer documents than
// the matrix has rows is an alignment defect, never silently truncated.
func DocData(m Model) ([]DocRow, error) {
	dtd := m.DocTopicDists()
	if dtd == nil {
		return nil, fmt.Errorf("no document-topic distributions: %w", internalerr.ErrNotFitted)
	}
	docs, topics := dtd.Dims()

	rows := make([]DocRow, 0, docs)
	i := 0
	for docID, bag := range m.Corpus().Documents() {
		if i >= docs {
			return nil, fmt.Errorf("corpus yields more documents than the %d matrix rows: %w",
				docs, internalerr.ErrAlignment)
		}
		length := 0
		for _, tc := range bag {
			length += tc.Count
		}
		weights := make([]float64, topics)
		for k := 0; k < topics; k++ {
			weights[k] = dtd.At(i, k)
		}
		rows = append(rows, DocRow{DocID: docID, Length: length, Weights: weights})
		i++
	}
	if i != docs {
		return nil, fmt.Errorf("corpus yields %d documents, matrix has %d rows: %w",
			i, docs, internalerr.ErrAlignment)
	}
	return rows, nil
}

// TermTopicMatrix returns the corpus's cached term-topic matrix when the
// corpus carries one.
func TermTopicMatrix(m Model) (*mat.Dense, bool) {
	if c, ok := m.Corpus().(corpus.TermTopicCacher); ok {
		return c.TermTopicMatrix()
	}
	return nil, false
}
