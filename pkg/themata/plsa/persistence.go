package plsa

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
	model.Register("plsa", load)
}

// Save writes the fitted mixtures next to the corpus under location, records
// the model in the corpus persistor and finally saves the corpus itself.
func (p *PLSA) Save(ctx context.Context, location string) error {
	if p.pwz == nil || p.pzd == nil {
		return fmt.Errorf("%s: %w", p.Name(), internalerr.ErrNotFitted)
	}
	if err := os.MkdirAll(location, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", location, err)
	}

	pwzFile := p.Name() + ".pwz"
	pzdFile := p.Name() + ".pzd"
	if err := model.WriteMatrixFile(filepath.Join(location, pwzFile), p.pwz); err != nil {
		return err
	}
	if err := model.WriteMatrixFile(filepath.Join(location, pzdFile), p.pzd); err != nil {
		return err
	}

	args := map[string]any{
		"num_topics": p.opts.Topics,
		"seed":       int(p.opts.Seed),
		"pwz_file":   pwzFile,
		"pzd_file":   pzdFile,
	}
	return model.Save(ctx, p, location, args)
}

// load rebuilds a fitted model from a saved record: reload the corpus from
// location, then the .pwz and .pzd matrices the record points at.
func load(ctx context.Context, location string, args map[string]any) (model.Model, error) {
	c, err := corpus.Load(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("reloading corpus: %w", err)
	}

	topics, err := model.IntArg(args, "num_topics")
	if err != nil {
		return nil, err
	}
	seed, err := model.IntArg(args, "seed")
	if err != nil {
		return nil, err
	}
	pwzFile, err := model.StringArg(args, "pwz_file")
	if err != nil {
		return nil, err
	}
	pzdFile, err := model.StringArg(args, "pzd_file")
	if err != nil {
		return nil, err
	}

	p, err := New(c, Options{Topics: topics, Seed: uint64(seed)})
	if err != nil {
		return nil, err
	}

	pwz, err := model.ReadMatrixFile(filepath.Join(location, pwzFile))
	if err != nil {
		return nil, err
	}
	if rows, cols := pwz.Dims(); rows != topics || cols != p.vocabSize {
		return nil, fmt.Errorf("%s is %dx%d, want %dx%d: %w",
			pwzFile, rows, cols, topics, p.vocabSize, internalerr.ErrAlignment)
	}
	pzd, err := model.ReadMatrixFile(filepath.Join(location, pzdFile))
	if err != nil {
		return nil, err
	}
	if rows, cols := pzd.Dims(); rows != len(p.bags) || cols != topics {
		return nil, fmt.Errorf("%s is %dx%d, want %dx%d: %w",
			pzdFile, rows, cols, len(p.bags), topics, internalerr.ErrAlignment)
	}

	p.pwz, p.pzd = pwz, pzd
	p.cacheOnCorpus()
	return p, nil
}
