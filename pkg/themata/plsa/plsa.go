// Package plsa fits probabilistic latent semantic analysis models by
// expectation maximization and registers the "plsa" kind with the model
// registry.
package plsa

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

// Options configure a model.
type Options struct {
	// Topics is the number of topics K. Required.
	Topics int
	// Seed drives the random initialization. The same seed over the same
	// corpus gives an identical fit.
	Seed uint64
}

// PLSA is a probabilistic latent semantic analysis model over one corpus.
// Unlike the Gibbs-sampled models it has no priors; the term and document
// mixtures are the free parameters EM re-estimates each iteration.
type PLSA struct {
	c    corpus.Corpus
	opts Options

	docIDs    []string
	bags      [][]corpus.TermCount
	docLen    []int
	vocabSize int

	rng *rand.Rand

	pwz *mat.Dense // topics x terms, set when fitted
	pzd *mat.Dense // documents x topics, set when fitted
}

var _ model.Model = (*PLSA)(nil)

// New prepares an unfitted model over c. The corpus must hold at least one
// document and one term.
func New(c corpus.Corpus, opts Options) (*PLSA, error) {
	if opts.Topics < 1 {
		return nil, fmt.Errorf("topics must be at least 1, got %d: %w", opts.Topics, internalerr.ErrInvalidConfig)
	}

	p := &PLSA{
		c:         c,
		opts:      opts,
		vocabSize: len(c.Vocab()),
	}
	if p.vocabSize == 0 {
		return nil, fmt.Errorf("corpus has an empty vocabulary: %w", internalerr.ErrInvalidInput)
	}

	for docID, bag := range c.Documents() {
		var length int
		for _, tc := range bag {
			if tc.TermID < 0 || tc.TermID >= p.vocabSize {
				return nil, fmt.Errorf("document %q references term id %d outside vocabulary of %d: %w",
					docID, tc.TermID, p.vocabSize, internalerr.ErrAlignment)
			}
			length += tc.Count
		}
		p.docIDs = append(p.docIDs, docID)
		p.bags = append(p.bags, bag)
		p.docLen = append(p.docLen, length)
	}
	if len(p.bags) == 0 {
		return nil, fmt.Errorf("corpus has no documents: %w", internalerr.ErrInvalidInput)
	}
	return p, nil
}

// Fit runs the given number of EM iterations and installs the resulting
// mixtures. Calling Fit again re-initializes and refits from scratch. The
// context is checked once per iteration.
func (p *PLSA) Fit(ctx context.Context, iterations int) error {
	if iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d: %w", iterations, internalerr.ErrInvalidInput)
	}

	pwz, pzd := p.initMixtures()
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.step(pwz, pzd)
	}

	p.pwz, p.pzd = pwz, pzd
	p.cacheOnCorpus()
	return nil
}

// initMixtures re-seeds the generator and draws random normalized rows for
// both parameter matrices. Entries are floored away from zero so EM never
// starts a topic it cannot leave.
func (p *PLSA) initMixtures() (*mat.Dense, *mat.Dense) {
	p.rng = rand.New(rand.NewPCG(p.opts.Seed, p.opts.Seed))

	K, V, D := p.opts.Topics, p.vocabSize, len(p.bags)
	pwz := mat.NewDense(K, V, nil)
	for k := 0; k < K; k++ {
		p.randomRow(pwz.RawRowView(k))
	}
	pzd := mat.NewDense(D, K, nil)
	for d := 0; d < D; d++ {
		p.randomRow(pzd.RawRowView(d))
	}
	return pwz, pzd
}

func (p *PLSA) randomRow(row []float64) {
	var sum float64
	for i := range row {
		row[i] = p.rng.Float64() + 1e-3
		sum += row[i]
	}
	for i := range row {
		row[i] /= sum
	}
}

// step performs one EM iteration. The posterior over topics for each
// document-term pair is computed from the current parameters, then both
// mixtures are re-estimated from the posterior-weighted counts. Document
// mixtures can be updated in place as each document's E-step uses only its
// own row.
func (p *PLSA) step(pwz, pzd *mat.Dense) {
	K, V := p.opts.Topics, p.vocabSize

	post := make([]float64, K)
	termMass := make([][]float64, K)
	for k := range termMass {
		termMass[k] = make([]float64, V)
	}

	for d, bag := range p.bags {
		topicMass := make([]float64, K)
		for _, tc := range bag {
			var norm float64
			for k := 0; k < K; k++ {
				post[k] = pwz.At(k, tc.TermID) * pzd.At(d, k)
				norm += post[k]
			}
			if norm == 0 {
				for k := range post {
					post[k] = 1.0 / float64(K)
				}
			} else {
				for k := range post {
					post[k] /= norm
				}
			}
			n := float64(tc.Count)
			for k := 0; k < K; k++ {
				mass := n * post[k]
				termMass[k][tc.TermID] += mass
				topicMass[k] += mass
			}
		}
		// Zero-length documents keep their initial mixture.
		if total := float64(p.docLen[d]); total > 0 {
			for k := 0; k < K; k++ {
				pzd.Set(d, k, topicMass[k]/total)
			}
		}
	}

	for k := 0; k < K; k++ {
		var sum float64
		for w := 0; w < V; w++ {
			sum += termMass[k][w]
		}
		if sum == 0 {
			uniform := 1.0 / float64(V)
			for w := 0; w < V; w++ {
				pwz.Set(k, w, uniform)
			}
			continue
		}
		for w := 0; w < V; w++ {
			pwz.Set(k, w, termMass[k][w]/sum)
		}
	}
}

// cacheOnCorpus hands the fresh topic-term matrix to corpora that keep one.
func (p *PLSA) cacheOnCorpus() {
	if setter, ok := p.c.(interface{ SetTermTopicMatrix(*mat.Dense) }); ok {
		setter.SetTermTopicMatrix(p.pwz)
	}
}

// LogLikelihood reports the log likelihood of the corpus under the fitted
// mixtures.
func (p *PLSA) LogLikelihood() (float64, error) {
	if p.pwz == nil || p.pzd == nil {
		return 0, fmt.Errorf("%s: %w", p.Name(), internalerr.ErrNotFitted)
	}
	var sum float64
	for d, bag := range p.bags {
		for _, tc := range bag {
			var topicSum float64
			for k := 0; k < p.opts.Topics; k++ {
				topicSum += p.pwz.At(k, tc.TermID) * p.pzd.At(d, k)
			}
			sum += float64(tc.Count) * math.Log(topicSum)
		}
	}
	return sum, nil
}

// Corpus returns the collection the model was trained on.
func (p *PLSA) Corpus() corpus.Corpus { return p.c }

// TopicTermDists returns the topics x terms matrix, nil before fitting.
func (p *PLSA) TopicTermDists() *mat.Dense { return p.pwz }

// DocTopicDists returns the documents x topics matrix, nil before fitting.
func (p *PLSA) DocTopicDists() *mat.Dense { return p.pzd }

// TopWords returns the topn heaviest terms per topic.
func (p *PLSA) TopWords(topn int) ([][]model.WeightedTerm, error) {
	return model.TopTerms(p.pwz, p.c.Vocab(), topn)
}

// Kind returns "plsa".
func (p *PLSA) Kind() string { return "plsa" }

// Name returns the catalog key, e.g. "plsa_3_topics".
func (p *PLSA) Name() string {
	return fmt.Sprintf("plsa_%d_topics", p.opts.Topics)
}
