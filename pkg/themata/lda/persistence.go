package lda

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/inferlab/themata/pkg/themata/corpus"
	"github.com/inferlab/themata/pkg/themata/internalerr"
	"github.com/inferlab/themata/pkg/themata/model"
)

func init() {
	model.Register("lda", load)
}

// Save writes the fitted matrices next to the corpus under location, records
// the model in the corpus persistor and finally saves the corpus itself.
func (l *LDA) Save(ctx context.Context, location string) error {
	if l.ttd == nil || l.dtd == nil {
		return fmt.Errorf("%s: %w", l.Name(), internalerr.ErrNotFitted)
	}
	if err := os.MkdirAll(location, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", location, err)
	}

	phiFile := l.Name() + ".phi"
	thetaFile := l.Name() + ".theta"
	if err := model.WriteMatrixFile(filepath.Join(location, phiFile), l.ttd); err != nil {
		return err
	}
	if err := model.WriteMatrixFile(filepath.Join(location, thetaFile), l.dtd); err != nil {
		return err
	}

	args := map[string]any{
		"num_topics": l.opts.Topics,
		"alpha":      l.opts.Alpha,
		"beta":       l.opts.Beta,
		"seed":       int(l.opts.Seed),
		"phi_file":   phiFile,
		"theta_file": thetaFile,
	}
	return model.Save(ctx, l, location, args)
}

// load rebuilds a fitted model from a saved record: reload the corpus from
// location, then the .phi and .theta matrices the record points at.
func load(ctx context.Context, location string, args map[string]any) (model.Model, error) {
	c, err := corpus.Load(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("reloading corpus: %w", err)
	}

	topics, err := model.IntArg(args, "num_topics")
	if err != nil {
		return nil, err
	}
	alpha, err := model.FloatArg(args, "alpha")
	if err != nil {
		return nil, err
	}
	beta, err := model.FloatArg(args, "beta")
	if err != nil {
		return nil, err
	}
	seed, err := model.IntArg(args, "seed")
	if err != nil {
		return nil, err
	}
	phiFile, err := model.StringArg(args, "phi_file")
	if err != nil {
		return nil, err
	}
	thetaFile, err := model.StringArg(args, "theta_file")
	if err != nil {
		return nil, err
	}

	l, err := New(c, Options{Topics: topics, Alpha: alpha, Beta: beta, Seed: uint64(seed)})
	if err != nil {
		return nil, err
	}

	ttd, err := model.ReadMatrixFile(filepath.Join(location, phiFile))
	if err != nil {
		return nil, err
	}
	if rows, cols := ttd.Dims(); rows != topics || cols != l.vocabSize {
		return nil, fmt.Errorf("%s is %dx%d, want %dx%d: %w",
			phiFile, rows, cols, topics, l.vocabSize, internalerr.ErrAlignment)
	}
	dtd, err := model.ReadMatrixFile(filepath.Join(location, thetaFile))
	if err != nil {
		return nil, err
	}
	if rows, cols := dtd.Dims(); rows != len(l.docs) || cols != topics {
		return nil, fmt.Errorf("%s is %dx%d, want %dx%d: %w",
			thetaFile, rows, cols, len(l.docs), topics, internalerr.ErrAlignment)
	}

	l.ttd, l.dtd = ttd, dtd
	l.cacheOnCorpus()
	return l, nil
}
