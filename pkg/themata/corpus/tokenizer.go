package corpus

import (
	"strings"
	"unicode"
)

// Tokenizer handles text tokenization and normalization
type Tokenizer struct {
	stopwords map[string]struct{}
	minLen    int
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops, minLen: 2}
}

// SetMinLength changes the minimum token length, 2 by default.
func (t *Tokenizer) SetMinLength(n int) {
	if n < 1 {
		n = 1
	}
	t.minLen = n
}

// Tokenize splits text into normalized tokens, removing stopwords.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			if current.Len() > 0 {
				word := t.processToken(current.String())
				if word != "" {
					tokens = append(tokens, word)
				}
				current.Reset()
			}
		}
	}

	// Don't forget the last token
	if current.Len() > 0 {
		word := t.processToken(current.String())
		if word != "" {
			tokens = append(tokens, word)
		}
	}

	return tokens
}

// processToken applies cleaning and stopword filtering.
func (t *Tokenizer) processToken(token string) string {
	word := cleanToken(token)
	if word == "" || len(word) < t.minLen {
		return ""
	}

	// Pure-numeric tokens carry little topical signal.
	// Mixed tokens like "gpt-4", "utf-8", "python3" are kept.
	if isNumericOnly(word) {
		return ""
	}

	if t.isStopword(word) {
		return ""
	}

	return word
}

// cleanToken strips leading/trailing hyphens and normalizes consecutive hyphens
func cleanToken(token string) string {
	token = strings.Trim(token, "-")

	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}

	return token
}

// isNumericOnly returns true if the token contains only digits and hyphens.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

func (t *Tokenizer) isStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, strings.ToLower(word))
}
