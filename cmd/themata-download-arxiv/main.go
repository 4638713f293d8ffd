package main

import (
	"encoding/json"
	"encoding/xml"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/inferlab/themata/pkg/themata/corpus"
)

// arXiv API endpoint
const apiURL = "http://export.arxiv.org/api/query"

// ArxivFeed represents the XML response from arXiv API
type ArxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []ArxivEntry `xml:"entry"`
}

// ArxivEntry represents a single paper
type ArxivEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}

func main() {
	var (
		category   = flag.String("category", "cs.CL", "arXiv category to download")
		maxResults = flag.Int("max", 200, "Maximum number of papers")
		out        = flag.String("out", "testdata/arxiv/docs.jsonl", "Output JSONL path")
	)
	flag.Parse()

	log.Printf("Downloading %d papers from arXiv category: %s", *maxResults, *category)
	log.Println("Categories: cs.AI (AI), cs.CL (NLP), cs.LG (ML), econ.EM (Economics), q-fin (Finance)")

	// Build query
	params := url.Values{}
	params.Set("search_query", "cat:"+*category)
	params.Set("max_results", fmt.Sprintf("%d", *maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	fullURL := apiURL + "?" + params.Encode()

	// Fetch from arXiv
	log.Println("Fetching from arXiv API...")
	resp, err := http.Get(fullURL)
	if err != nil {
		log.Fatal("Failed to fetch:", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		log.Fatalf("HTTP error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal("Failed to read response:", err)
	}

	// Parse XML
	var feed ArxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		log.Fatal("Failed to parse XML:", err)
	}

	log.Printf("Received %d papers", len(feed.Entries))

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatal("Failed to create output directory:", err)
	}
	outFile, err := os.Create(*out)
	if err != nil {
		log.Fatal("Failed to create output file:", err)
	}
	defer outFile.Close()

	encoder := json.NewEncoder(outFile)
	downloaded := 0

	// One corpus document per paper: the abstract with the title folded in.
	for _, entry := range feed.Entries {
		doc := corpus.Document{
			ID:    entry.ID,
			Title: cleanText(entry.Title),
			Text:  cleanText(entry.Title) + ". " + cleanText(entry.Summary),
		}

		if err := encoder.Encode(doc); err != nil {
			log.Printf("Failed to encode doc: %v", err)
			continue
		}

		downloaded++
		if downloaded%25 == 0 {
			log.Printf("Processed %d/%d papers...", downloaded, len(feed.Entries))
		}
	}

	log.Printf("✓ Successfully downloaded %d papers to %s", downloaded, *out)
}

func cleanText(s string) string {
	// Remove extra whitespace
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimSpace(s)
	return s
}
