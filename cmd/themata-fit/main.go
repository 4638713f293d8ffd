package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/inferlab/themata/pkg/themata"
	"github.com/inferlab/themata/pkg/themata/config"
	"github.com/inferlab/themata/pkg/themata/corpus"
	"github.com/inferlab/themata/pkg/themata/lda"
	"github.com/inferlab/themata/pkg/themata/model"
	"github.com/inferlab/themata/pkg/themata/persist"
	"github.com/inferlab/themata/pkg/themata/persist/jsonfile"
	"github.com/inferlab/themata/pkg/themata/persist/sqlite"
	"github.com/inferlab/themata/pkg/themata/plsa"
)

// fitter is what every trainable model kind offers on top of the shared
// result contract.
type fitter interface {
	model.Model
	Fit(ctx context.Context, iterations int) error
	LogLikelihood() (float64, error)
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (optional)")
		input      = flag.String("input", "", "Input JSONL file (required)")
		location   = flag.String("location", "", "Output directory (required)")
		storeKind  = flag.String("store", "jsonfile", "Catalog backend: jsonfile or sqlite")
		modelKind  = flag.String("model", "lda", "Model kind: lda or plsa")
		topics     = flag.Int("topics", 10, "Number of topics")
		alpha      = flag.Float64("alpha", 0, "Document-topic prior (0 = model default)")
		beta       = flag.Float64("beta", 0, "Topic-term prior (0 = model default)")
		seed       = flag.Uint64("seed", 0, "Sampler seed")
		iterations = flag.Int("iterations", 100, "Fitting iterations")
		topWords   = flag.Int("top-words", 15, "Top words to report per topic")
		stoplist   = flag.String("stoplist", "", "YAML stoplist file (optional)")
		minTermLen = flag.Int("min-term-length", 0, "Minimum token length (0 = tokenizer default)")
		stripHTML  = flag.Bool("strip-html", false, "Extract text from HTML before tokenizing")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("Failed to load config:", err)
		}
		cfg = *loaded
	}

	// Flags given on the command line override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "location":
			cfg.Location = *location
		case "store":
			cfg.Store = *storeKind
		case "model":
			cfg.Model = *modelKind
		case "topics":
			cfg.Topics = *topics
		case "alpha":
			cfg.Alpha = *alpha
		case "beta":
			cfg.Beta = *beta
		case "seed":
			cfg.Seed = *seed
		case "iterations":
			cfg.Iterations = *iterations
		case "top-words":
			cfg.TopWords = *topWords
		case "stoplist":
			cfg.Stoplist = *stoplist
		case "min-term-length":
			cfg.MinTermLength = *minTermLen
		case "strip-html":
			cfg.StripHTML = *stripHTML
		}
	})

	if cfg.Input == "" {
		log.Fatal("--input required")
	}
	if cfg.Location == "" {
		log.Fatal("--location required")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	ctx := context.Background()

	var stopTerms []string
	if cfg.Stoplist != "" {
		sl, err := config.LoadStoplist(cfg.Stoplist)
		if err != nil {
			log.Fatal("Failed to load stoplist:", err)
		}
		stopTerms = sl.Terms
	}
	tok := corpus.NewTokenizer(stopTerms)
	if cfg.MinTermLength > 0 {
		tok.SetMinLength(cfg.MinTermLength)
	}

	docs, err := corpus.ReadJSONL(cfg.Input)
	if err != nil {
		log.Fatal("Failed to load documents:", err)
	}
	log.Printf("Loaded %d documents from %s", len(docs), cfg.Input)

	coll := corpus.NewCollection()
	kept := 0
	for i, d := range docs {
		text := d.Text
		if cfg.StripHTML {
			text = corpus.StripHTML(text)
		}
		tokens := tok.Tokenize(text)
		if len(tokens) == 0 {
			log.Printf("Skipping document %d (%s): no usable tokens", i, d.ID)
			continue
		}
		id := d.ID
		if id == "" {
			id = fmt.Sprintf("doc%d", i)
		}
		coll.AddDocument(id, tokens)
		kept++
	}
	if kept == 0 {
		log.Fatal("No documents left after tokenization")
	}
	log.Printf("Corpus: %d documents, %d terms", kept, len(coll.Vocab()))

	store, err := openStore(ctx, cfg.Store, cfg.Location)
	if err != nil {
		log.Fatal("Failed to open catalog:", err)
	}
	project, err := themata.Open(cfg.Location, themata.Options{Store: store})
	if err != nil {
		log.Fatal("Failed to open project:", err)
	}
	defer project.Close()

	var m fitter
	switch cfg.Model {
	case "lda":
		m, err = lda.New(coll, lda.Options{Topics: cfg.Topics, Alpha: cfg.Alpha, Beta: cfg.Beta, Seed: cfg.Seed})
	case "plsa":
		m, err = plsa.New(coll, plsa.Options{Topics: cfg.Topics, Seed: cfg.Seed})
	default:
		log.Fatalf("Unknown model kind %q (registered: %s)", cfg.Model, strings.Join(model.Registered(), ", "))
	}
	if err != nil {
		log.Fatal("Failed to build model:", err)
	}

	log.Printf("Fitting %s over %d iterations", m.Name(), cfg.Iterations)
	if err := m.Fit(ctx, cfg.Iterations); err != nil {
		log.Fatal("Fitting failed:", err)
	}
	if ll, err := m.LogLikelihood(); err == nil {
		log.Printf("Log likelihood: %.2f", ll)
	}

	if err := project.Save(ctx, m); err != nil {
		log.Fatal("Failed to save model:", err)
	}
	log.Printf("Saved %s to %s", m.Name(), cfg.Location)

	top, err := m.TopWords(cfg.TopWords)
	if err != nil {
		log.Fatal("Failed to rank top words:", err)
	}
	for k, terms := range top {
		words := make([]string, len(terms))
		for i, wt := range terms {
			words[i] = wt.Term
		}
		log.Printf("Topic %d: %s", k, strings.Join(words, " "))
	}

	log.Printf("✓ Fit complete: %s", m.Name())
}

func openStore(ctx context.Context, kind, location string) (persist.Store, error) {
	if kind == "sqlite" {
		return sqlite.Open(ctx, filepath.Join(location, "models.db"))
	}
	return jsonfile.Open(location)
}
