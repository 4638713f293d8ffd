// Package config holds the YAML configuration for the fit pipeline and the
// stoplist files the tokenizer consumes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inferlab/themata/pkg/themata/internalerr"
)

// Config describes one fit run end to end: where documents come from, how
// they are tokenized, which model kind to fit and where results land.
type Config struct {
	// Input is the JSONL document file to ingest.
	Input string `yaml:"input"`
	// Location is the directory models and the corpus are saved under.
	Location string `yaml:"location"`
	// Store selects the catalog backend, "jsonfile" or "sqlite".
	Store string `yaml:"store"`
	// Model is the registered model kind to fit.
	Model string `yaml:"model"`

	Topics     int     `yaml:"topics"`
	Alpha      float64 `yaml:"alpha"`
	Beta       float64 `yaml:"beta"`
	Seed       uint64  `yaml:"seed"`
	Iterations int     `yaml:"iterations"`
	TopWords   int     `yaml:"top_words"`

	// Stoplist is an optional YAML stoplist path.
	Stoplist string `yaml:"stoplist"`
	// MinTermLength drops shorter tokens; 0 keeps the tokenizer default.
	MinTermLength int `yaml:"min_term_length"`
	// StripHTML extracts text from HTML input documents before tokenizing.
	StripHTML bool `yaml:"strip_html"`
}

// Default returns the configuration the CLI starts from before flags and
// files are applied.
func Default() Config {
	return Config{
		Store:      "jsonfile",
		Model:      "lda",
		Topics:     10,
		Iterations: 100,
		TopWords:   15,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports the first defect that would make a fit run fail late.
func (c *Config) Validate() error {
	switch c.Store {
	case "jsonfile", "sqlite":
	default:
		return fmt.Errorf("store must be jsonfile or sqlite, got %q: %w", c.Store, internalerr.ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("model kind is required: %w", internalerr.ErrInvalidConfig)
	}
	if c.Topics < 1 {
		return fmt.Errorf("topics must be at least 1, got %d: %w", c.Topics, internalerr.ErrInvalidConfig)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d: %w", c.Iterations, internalerr.ErrInvalidConfig)
	}
	if c.TopWords < 1 {
		return fmt.Errorf("top_words must be at least 1, got %d: %w", c.TopWords, internalerr.ErrInvalidConfig)
	}
	if c.Alpha < 0 || c.Beta < 0 {
		return fmt.Errorf("negative prior (alpha=%v beta=%v): %w", c.Alpha, c.Beta, internalerr.ErrInvalidConfig)
	}
	if c.MinTermLength < 0 {
		return fmt.Errorf("min_term_length must not be negative, got %d: %w", c.MinTermLength, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
