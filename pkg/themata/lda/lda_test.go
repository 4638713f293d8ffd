package lda

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/inferlab/themata/pkg/themata/corpus"
	"github.com/inferlab/themata/pkg/themata/internalerr"
	"github.com/inferlab/themata/pkg/themata/model"
	"github.com/inferlab/themata/pkg/themata/persist/jsonfile"
)

func energyCorpus() *corpus.Collection {
	c := corpus.NewCollection()
	c.AddDocument("doc0", []string{"wind", "wind", "turbine", "grid", "solar"})
	c.AddDocument("doc1", []string{"solar", "panel", "panel", "grid", "inverter"})
	c.AddDocument("doc2", []string{"coal", "mine", "coal", "furnace", "ash"})
	c.AddDocument("doc3", []string{"furnace", "coal", "ash", "mine", "mine"})
	c.AddDocument("doc4", []string{"wind", "turbine", "grid", "solar", "panel"})
	c.AddDocument("doc5", []string{"ash", "furnace", "mine", "coal", "coal"})
	return c
}

func fitted(t *testing.T, topics int, seed uint64) *LDA {
	t.Helper()
	l, err := New(energyCorpus(), Options{Topics: topics, Seed: seed})
	assert.NoError(t, err)
	assert.NoError(t, l.Fit(context.Background(), 30))
	return l
}

func TestNewValidation(t *testing.T) {
	c := energyCorpus()

	_, err := New(c, Options{Topics: 0})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)

	_, err = New(c, Options{Topics: 2, Alpha: -0.1})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)

	_, err = New(corpus.NewCollection(), Options{Topics: 2})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestNewDefaultsPriors(t *testing.T) {
	l, err := New(energyCorpus(), Options{Topics: 5})
	assert.NoError(t, err)
	assert.Equal(t, 10.0, l.opts.Alpha)
	assert.Equal(t, 0.01, l.opts.Beta)
}

func TestFitEstimateShapes(t *testing.T) {
	l := fitted(t, 2, 7)

	rows, cols := l.TopicTermDists().Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 10, cols)

	rows, cols = l.DocTopicDists().Dims()
	assert.Equal(t, 6, rows)
	assert.Equal(t, 2, cols)
}

func TestFitEstimatesAreDistributions(t *testing.T) {
	l := fitted(t, 3, 7)

	ttd := l.TopicTermDists()
	rows, cols := ttd.Dims()
	for k := 0; k < rows; k++ {
		var sum float64
		for w := 0; w < cols; w++ {
			assert.Greater(t, ttd.At(k, w), 0.0)
			sum += ttd.At(k, w)
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}

	dtd := l.DocTopicDists()
	rows, cols = dtd.Dims()
	for d := 0; d < rows; d++ {
		var sum float64
		for k := 0; k < cols; k++ {
			assert.Greater(t, dtd.At(d, k), 0.0)
			sum += dtd.At(d, k)
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestFitDeterministicForSeed(t *testing.T) {
	a := fitted(t, 2, 42)
	b := fitted(t, 2, 42)

	assert.True(t, mat.Equal(a.TopicTermDists(), b.TopicTermDists()))
	assert.True(t, mat.Equal(a.DocTopicDists(), b.DocTopicDists()))
}

func TestRefitMatchesFirstFit(t *testing.T) {
	l := fitted(t, 2, 42)
	first := mat.DenseCopyOf(l.TopicTermDists())

	assert.NoError(t, l.Fit(context.Background(), 30))
	assert.True(t, mat.Equal(first, l.TopicTermDists()))
}

func TestFitInvalidSweeps(t *testing.T) {
	l, err := New(energyCorpus(), Options{Topics: 2})
	assert.NoError(t, err)
	assert.ErrorIs(t, l.Fit(context.Background(), 0), internalerr.ErrInvalidInput)
}

func TestFitHonorsContext(t *testing.T) {
	l, err := New(energyCorpus(), Options{Topics: 2})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Fit(ctx, 10), context.Canceled)
}

func TestTopWords(t *testing.T) {
	l := fitted(t, 2, 7)

	top, err := l.TopWords(3)
	assert.NoError(t, err)
	assert.Len(t, top, 2)
	for _, terms := range top {
		assert.Len(t, terms, 3)
		for i := 1; i < len(terms); i++ {
			assert.LessOrEqual(t, terms[i].Weight, terms[i-1].Weight)
		}
	}
}

func TestTopWordsBeforeFit(t *testing.T) {
	l, err := New(energyCorpus(), Options{Topics: 2})
	assert.NoError(t, err)

	_, err = l.TopWords(3)
	assert.ErrorIs(t, err, internalerr.ErrNotFitted)
}

func TestLogLikelihood(t *testing.T) {
	l, err := New(energyCorpus(), Options{Topics: 2, Seed: 7})
	assert.NoError(t, err)

	_, err = l.LogLikelihood()
	assert.ErrorIs(t, err, internalerr.ErrNotFitted)

	assert.NoError(t, l.Fit(context.Background(), 30))
	ll, err := l.LogLikelihood()
	assert.NoError(t, err)
	assert.Less(t, ll, 0.0)
	assert.False(t, math.IsInf(ll, 0))
}

func TestNamesAndKind(t *testing.T) {
	l, err := New(energyCorpus(), Options{Topics: 3})
	assert.NoError(t, err)
	assert.Equal(t, "lda", l.Kind())
	assert.Equal(t, "lda_3_topics", l.Name())
}

func TestFitCachesTermTopicMatrix(t *testing.T) {
	c := energyCorpus()
	l, err := New(c, Options{Topics: 2, Seed: 7})
	assert.NoError(t, err)
	assert.NoError(t, l.Fit(context.Background(), 10))

	cached, ok := c.TermTopicMatrix()
	assert.True(t, ok)
	assert.True(t, mat.Equal(l.TopicTermDists(), cached))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c := energyCorpus()
	store, err := jsonfile.Open(dir)
	assert.NoError(t, err)
	defer store.Close()
	c.SetPersistor(store)

	l, err := New(c, Options{Topics: 2, Seed: 42})
	assert.NoError(t, err)
	assert.NoError(t, l.Fit(ctx, 30))
	assert.NoError(t, l.Save(ctx, dir))

	loaded, err := model.Load(ctx, dir, "lda_2_topics")
	assert.NoError(t, err)

	assert.Equal(t, "lda", loaded.Kind())
	assert.Equal(t, l.Name(), loaded.Name())
	assert.Equal(t, c.Vocab(), loaded.Corpus().Vocab())
	assert.True(t, mat.Equal(l.DocTopicDists(), loaded.DocTopicDists()))
	assert.True(t, mat.Equal(l.TopicTermDists(), loaded.TopicTermDists()))

	want, err := l.TopWords(5)
	assert.NoError(t, err)
	got, err := loaded.TopWords(5)
	assert.NoError(t, err)
	assert.Equal(t, want, got)

	assert.NotNil(t, loaded.Corpus().Persistor())
}

func TestSaveBeforeFit(t *testing.T) {
	l, err := New(energyCorpus(), Options{Topics: 2})
	assert.NoError(t, err)
	assert.ErrorIs(t, l.Save(context.Background(), t.TempDir()), internalerr.ErrNotFitted)
}

func TestLoadRejectsMismatchedMatrices(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c := energyCorpus()
	store, err := jsonfile.Open(dir)
	assert.NoError(t, err)
	defer store.Close()
	c.SetPersistor(store)

	l, err := New(c, Options{Topics: 2, Seed: 1})
	assert.NoError(t, err)
	assert.NoError(t, l.Fit(ctx, 10))
	assert.NoError(t, l.Save(ctx, dir))

	// Claim a different topic count than the saved matrices have.
	rec, err := store.GetModel(ctx, "lda_2_topics")
	assert.NoError(t, err)
	rec.Args["num_topics"] = 3
	assert.NoError(t, store.StoreModel(ctx, "lda_2_topics", rec))

	_, err = model.Load(ctx, dir, "lda_2_topics")
	assert.ErrorIs(t, err, internalerr.ErrAlignment)
}
