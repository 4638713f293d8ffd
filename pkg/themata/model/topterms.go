package model

import (
	"container/heap"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/inferlab/themata/pkg/themata/internalerr"
)

// Compile time check to ensure termHeap satisfies the heap interface.
var _ heap.Interface = (*termHeap)(nil)

type termEntry struct {
	id     int
	weight float64
}

// termHeap is a min-heap of selection candidates: the root is the weakest
// entry currently held. Between equal weights the higher term id ranks
// weaker, which keeps the selected set deterministic.
type termHeap []termEntry

func (h termHeap) Len() int { return len(h) }

func (h termHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].id > h[j].id
}

func (h termHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *termHeap) Push(x any) { *h = append(*h, x.(termEntry)) }

func (h *termHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// outranks reports whether a should displace b in the selection: heavier
// weight wins, equal weights go to the lower term id.
func outranks(a, b termEntry) bool {
	if a.weight != b.weight {
		return a.weight > b.weight
	}
	return a.id < b.id
}

// TopTerms selects the topn heaviest terms of every row of a topics x terms
// matrix without sorting whole rows: each row streams through a min-heap
// bounded at topn, so a row costs O(terms log topn).
//
// Results are in descending weight order; equal weights order by ascending
// term id, so repeated calls on the same matrix return identical lists. A
// topn larger than the vocabulary clamps to the vocabulary size.
func TopTerms(ttd *mat.Dense, vocab []string, topn int) ([][]WeightedTerm, error) {
	if ttd == nil {
		return nil, fmt.Errorf("nil topic-term matrix: %w", internalerr.ErrNotFitted)
	}
	if topn <= 0 {
		return nil, fmt.Errorf("topn must be positive, got %d: %w", topn, internalerr.ErrInvalidInput)
	}
	topics, terms := ttd.Dims()
	if terms != len(vocab) {
		return nil, fmt.Errorf("topic-term matrix has %d term columns, vocabulary has %d terms: %w",
			terms, len(vocab), internalerr.ErrAlignment)
	}
	if topn > terms {
		topn = terms
	}

	out := make([][]WeightedTerm, topics)
	h := make(termHeap, 0, topn)
	for k := 0; k < topics; k++ {
		h = h[:0]
		for id := 0; id < terms; id++ {
			entry := termEntry{id: id, weight: ttd.At(k, id)}
			if len(h) < topn {
				heap.Push(&h, entry)
				continue
			}
			if outranks(entry, h[0]) {
				h[0] = entry
				heap.Fix(&h, 0)
			}
		}

		// Popping the min-heap yields weakest first; fill from the back
		// to get descending order.
		selected := make([]WeightedTerm, len(h))
		for i := len(h) - 1; i >= 0; i-- {
			e := heap.Pop(&h).(termEntry)
			selected[i] = WeightedTerm{Term: vocab[e.id], Weight: e.weight}
		}
		out[k] = selected
	}
	return out, nil
}
