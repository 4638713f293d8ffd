// Package lda fits topic models by collapsed Gibbs sampling and registers
// the "lda" kind with the model registry.
package lda

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/inferlab/themata/pkg/themata/corpus"
	"github.com/inferlab/themata/pkg/themata/internalerr"
	"github.com/inferlab/themata/pkg/themata/model"
)

// Options configure a sampler.
type Options struct {
	// Topics is the number of topics K. Required.
	Topics int
	// Alpha is the document-topic prior; 0 means the 50/K heuristic.
	Alpha float64
	// Beta is the topic-term prior; 0 means 0.01.
	Beta float64
	// Seed drives the sampler. The same seed over the same corpus gives
	// an identical fit.
	Seed uint64
}

// LDA is a latent Dirichlet allocation model over one corpus.
type LDA struct {
	c    corpus.Corpus
	opts Options

	docIDs    []string
	docs      [][]int // expanded token streams per document
	vocabSize int

	// sufficient statistics, live only while fitting
	wt     [][]int // term x topic counts
	dt     [][]int // document x topic counts
	topicN []int   // total tokens per topic
	assign [][]int // topic of every token, parallel to docs

	rng *rand.Rand

	ttd *mat.Dense // topics x terms, set when fitted
	dtd *mat.Dense // documents x topics, set when fitted
}

var _ model.Model = (*LDA)(nil)

// New prepares an unfitted model over c. The corpus is expanded into token
// streams once, up front; it must hold at least one document and one term.
func New(c corpus.Corpus, opts Options) (*LDA, error) {
	if opts.Topics < 1 {
		return nil, fmt.Errorf("topics must be at least 1, got %d: %w", opts.Topics, internalerr.ErrInvalidConfig)
	}
	if opts.Alpha < 0 || opts.Beta < 0 {
		return nil, fmt.Errorf("negative prior (alpha=%v beta=%v): %w", opts.Alpha, opts.Beta, internalerr.ErrInvalidConfig)
	}
	if opts.Alpha == 0 {
		opts.Alpha = 50.0 / float64(opts.Topics)
	}
	if opts.Beta == 0 {
		opts.Beta = 0.01
	}

	l := &LDA{
		c:         c,
		opts:      opts,
		vocabSize: len(c.Vocab()),
	}
	if l.vocabSize == 0 {
		return nil, fmt.Errorf("corpus has an empty vocabulary: %w", internalerr.ErrInvalidInput)
	}

	for docID, bag := range c.Documents() {
		var words []int
		for _, tc := range bag {
			if tc.TermID < 0 || tc.TermID >= l.vocabSize {
				return nil, fmt.Errorf("document %q references term id %d outside vocabulary of %d: %w",
					docID, tc.TermID, l.vocabSize, internalerr.ErrAlignment)
			}
			for n := 0; n < tc.Count; n++ {
				words = append(words, tc.TermID)
			}
		}
		l.docIDs = append(l.docIDs, docID)
		l.docs = append(l.docs, words)
	}
	if len(l.docs) == 0 {
		return nil, fmt.Errorf("corpus has no documents: %w", internalerr.ErrInvalidInput)
	}
	return l, nil
}

// Fit runs the given number of full Gibbs sweeps and freezes the posterior
// point estimates. Calling Fit again re-initializes and refits from scratch.
// The context is checked once per sweep.
func (l *LDA) Fit(ctx context.Context, sweeps int) error {
	if sweeps < 1 {
		return fmt.Errorf("sweeps must be at least 1, got %d: %w", sweeps, internalerr.ErrInvalidInput)
	}

	l.initAssignments()
	for s := 0; s < sweeps; s++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.sweep()
	}

	l.ttd = l.topicTermEstimate()
	l.dtd = l.docTopicEstimate()
	l.cacheOnCorpus()
	return nil
}

// initAssignments re-seeds the sampler, assigns every token a random topic
// and builds the count tables the sampler maintains incrementally.
func (l *LDA) initAssignments() {
	l.rng = rand.New(rand.NewPCG(l.opts.Seed, l.opts.Seed))

	K := l.opts.Topics
	l.wt = make([][]int, l.vocabSize)
	for w := range l.wt {
		l.wt[w] = make([]int, K)
	}
	l.dt = make([][]int, len(l.docs))
	l.topicN = make([]int, K)
	l.assign = make([][]int, len(l.docs))

	for d, words := range l.docs {
		l.dt[d] = make([]int, K)
		l.assign[d] = make([]int, len(words))
		for i, w := range words {
			k := l.rng.IntN(K)
			l.wt[w][k]++
			l.dt[d][k]++
			l.topicN[k]++
			l.assign[d][i] = k
		}
	}
}

// sweep resamples the topic of every token once, conditioned on all other
// current assignments.
func (l *LDA) sweep() {
	K := l.opts.Topics
	betaV := l.opts.Beta * float64(l.vocabSize)
	cumsum := make([]float64, K)

	for d, words := range l.docs {
		for i, w := range words {
			k := l.assign[d][i]
			l.wt[w][k]--
			l.dt[d][k]--
			l.topicN[k]--

			for kk := 0; kk < K; kk++ {
				docPart := l.opts.Alpha + float64(l.dt[d][kk])
				wordPart := (l.opts.Beta + float64(l.wt[w][kk])) /
					(float64(l.topicN[kk]) + betaV)
				weight := docPart * wordPart
				if kk == 0 {
					cumsum[kk] = weight
				} else {
					cumsum[kk] = cumsum[kk-1] + weight
				}
			}
			u := l.rng.Float64() * cumsum[K-1]
			k = K - 1
			for kk := 0; kk < K; kk++ {
				if u < cumsum[kk] {
					k = kk
					break
				}
			}

			l.wt[w][k]++
			l.dt[d][k]++
			l.topicN[k]++
			l.assign[d][i] = k
		}
	}
}

// topicTermEstimate computes the smoothed posterior point estimate
// (count + beta) / (topic total + V*beta), one row per topic.
func (l *LDA) topicTermEstimate() *mat.Dense {
	K, V := l.opts.Topics, l.vocabSize
	ttd := mat.NewDense(K, V, nil)
	for k := 0; k < K; k++ {
		denom := float64(l.topicN[k]) + l.opts.Beta*float64(V)
		for w := 0; w < V; w++ {
			ttd.Set(k, w, (float64(l.wt[w][k])+l.opts.Beta)/denom)
		}
	}
	return ttd
}

// docTopicEstimate computes (count + alpha) / (doc length + K*alpha), one
// row per document in corpus order.
func (l *LDA) docTopicEstimate() *mat.Dense {
	K := l.opts.Topics
	dtd := mat.NewDense(len(l.docs), K, nil)
	for d := range l.docs {
		denom := float64(len(l.docs[d])) + l.opts.Alpha*float64(K)
		for k := 0; k < K; k++ {
			dtd.Set(d, k, (float64(l.dt[d][k])+l.opts.Alpha)/denom)
		}
	}
	return dtd
}

// cacheOnCorpus hands the fresh topic-term matrix to corpora that keep one.
func (l *LDA) cacheOnCorpus() {
	if setter, ok := l.c.(interface{ SetTermTopicMatrix(*mat.Dense) }); ok {
		setter.SetTermTopicMatrix(l.ttd)
	}
}

// LogLikelihood reports the joint log likelihood of the corpus under the
// fitted estimates, a monotone-ish fit quality signal for comparing runs.
func (l *LDA) LogLikelihood() (float64, error) {
	if l.ttd == nil || l.dtd == nil {
		return 0, fmt.Errorf("%s: %w", l.Name(), internalerr.ErrNotFitted)
	}
	var sum float64
	for d, words := range l.docs {
		for _, w := range words {
			var topicSum float64
			for k := 0; k < l.opts.Topics; k++ {
				topicSum += l.ttd.At(k, w) * l.dtd.At(d, k)
			}
			sum += math.Log(topicSum)
		}
	}
	return sum, nil
}

// Corpus returns the collection the model was trained on.
func (l *LDA) Corpus() corpus.Corpus { return l.c }

// TopicTermDists returns the topics x terms matrix, nil before fitting.
func (l *LDA) TopicTermDists() *mat.Dense { return l.ttd }

// DocTopicDists returns the documents x topics matrix, nil before fitting.
func (l *LDA) DocTopicDists() *mat.Dense { return l.dtd }

// TopWords returns the topn heaviest terms per topic.
func (l *LDA) TopWords(topn int) ([][]model.WeightedTerm, error) {
	return model.TopTerms(l.ttd, l.c.Vocab(), topn)
}

// Kind returns "lda".
func (l *LDA) Kind() string { return "lda" }

// Name returns the catalog key, e.g. "lda_3_topics".
func (l *LDA) Name() string {
	return fmt.Sprintf("lda_%d_topics", l.opts.Topics)
}
