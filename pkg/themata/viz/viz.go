// Package viz turns any trained model into the payload consumed by
// interactive topic browsers and into termite-plot rows.
package viz

import (
	"github.com/inferlab/themata/pkg/themata/model"
)

// Payload is the five-field record visualization tooling consumes. The
// field names and axis orientation are an external contract: vocabulary,
// term_frequency, and the rows of topic_term_dists all align by term id,
// and doc_topic_dists rows align with doc_lengths by document. Note that
// topic_term_dists is terms x topics, the transpose of the model's matrix.
type Payload struct {
	Vocabulary     []string    `json:"vocabulary"`
	TermFrequency  []int       `json:"term_frequency"`
	TopicTermDists [][]float64 `json:"topic_term_dists"` // terms x topics
	DocTopicDists  [][]float64 `json:"doc_topic_dists"`  // documents x topics
	DocLengths     []int       `json:"doc_lengths"`
}

// Build composes the payload from the model's merged term and document
// tables. Pure transformation over in-memory state; no I/O.
func Build(m model.Model) (*Payload, error) {
	termRows, err := model.TermData(m)
	if err != nil {
		return nil, err
	}
	docRows, err := model.DocData(m)
	if err != nil {
		return nil, err
	}

	p := &Payload{
		Vocabulary:     make([]string, len(termRows)),
		TermFrequency:  make([]int, len(termRows)),
		TopicTermDists: make([][]float64, len(termRows)),
		DocTopicDists:  make([][]float64, len(docRows)),
		DocLengths:     make([]int, len(docRows)),
	}
	for i, row := range termRows {
		p.Vocabulary[i] = row.Term
		p.TermFrequency[i] = row.Frequency
		p.TopicTermDists[i] = row.Weights
	}
	for i, row := range docRows {
		p.DocTopicDists[i] = row.Weights
		p.DocLengths[i] = row.Length
	}
	return p, nil
}

// TermiteRow is one row of the long-format termite table.
type TermiteRow struct {
	Topic  int     `json:"topic"`
	Weight float64 `json:"weight"`
	Word   string  `json:"word"`
}

// Termite flattens the top topnWords of every topic into long-format rows,
// one per (topic, selected word) pair. Topic indices are 0-based in top-word
// iteration order; rows within a topic keep the descending weight order.
func Termite(m model.Model, topnWords int) ([]TermiteRow, error) {
	topWords, err := m.TopWords(topnWords)
	if err != nil {
		return nil, err
	}

	var rows []TermiteRow
	for topicID, terms := range topWords {
		for _, wt := range terms {
			rows = append(rows, TermiteRow{Topic: topicID, Weight: wt.Weight, Word: wt.Term})
		}
	}
	return rows, nil
}
