package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/inferlab/themata/pkg/themata"
	"github.com/inferlab/themata/pkg/themata/persist"
	"github.com/inferlab/themata/pkg/themata/persist/jsonfile"
	"github.com/inferlab/themata/pkg/themata/persist/sqlite"
	"github.com/inferlab/themata/pkg/themata/viz"

	// Registered model kinds for the load protocol.
	_ "github.com/inferlab/themata/pkg/themata/lda"
	_ "github.com/inferlab/themata/pkg/themata/plsa"
)

func main() {
	var (
		location  = flag.String("location", "", "Model location directory (required)")
		storeKind = flag.String("store", "jsonfile", "Catalog backend: jsonfile or sqlite")
		name      = flag.String("name", "", "Stored model name; empty lists the catalog")
		payload   = flag.String("payload", "", "Write the visualization payload JSON to this path")
		termite   = flag.String("termite", "", "Write termite plot rows JSON to this path")
		topWords  = flag.Int("top-words", 15, "Top words per topic for termite rows")
	)
	flag.Parse()

	if *location == "" {
		log.Fatal("--location required")
	}

	ctx := context.Background()

	store, err := openStore(ctx, *storeKind, *location)
	if err != nil {
		log.Fatal("Failed to open catalog:", err)
	}
	project, err := themata.Open(*location, themata.Options{Store: store})
	if err != nil {
		log.Fatal("Failed to open project:", err)
	}
	defer project.Close()

	if *name == "" {
		names, err := project.Models(ctx)
		if err != nil {
			log.Fatal("Failed to list models:", err)
		}
		if len(names) == 0 {
			log.Printf("Catalog at %s is empty", *location)
			return
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	m, err := project.Load(ctx, *name)
	if err != nil {
		log.Fatal("Failed to load model:", err)
	}
	log.Printf("Loaded %s (%s)", m.Name(), m.Kind())

	wrote := false
	if *payload != "" {
		p, err := viz.Build(m)
		if err != nil {
			log.Fatal("Failed to build payload:", err)
		}
		if err := writeJSON(*payload, p); err != nil {
			log.Fatal("Failed to write payload:", err)
		}
		log.Printf("Wrote payload to %s", *payload)
		wrote = true
	}
	if *termite != "" {
		rows, err := viz.Termite(m, *topWords)
		if err != nil {
			log.Fatal("Failed to build termite rows:", err)
		}
		if err := writeJSON(*termite, rows); err != nil {
			log.Fatal("Failed to write termite rows:", err)
		}
		log.Printf("Wrote %d termite rows to %s", len(rows), *termite)
		wrote = true
	}

	// With no output file, report the topics on stdout.
	if !wrote {
		top, err := m.TopWords(*topWords)
		if err != nil {
			log.Fatal("Failed to rank top words:", err)
		}
		for k, terms := range top {
			words := make([]string, len(terms))
			for i, wt := range terms {
				words[i] = wt.Term
			}
			fmt.Printf("topic %d: %s\n", k, strings.Join(words, " "))
		}
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func openStore(ctx context.Context, kind, location string) (persist.Store, error) {
	if kind == "sqlite" {
		return sqlite.Open(ctx, filepath.Join(location, "models.db"))
	}
	return jsonfile.Open(location)
}
