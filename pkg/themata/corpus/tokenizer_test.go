package corpus

import (
	"strings"
	"testing"
)

func TestTokenizerBasic(t *testing.T) {
	stopwords := []string{"the", "a", "and", "of"}
	tokenizer := NewTokenizer(stopwords)

	text := "The rise and fall of ancient trade routes"
	tokens := tokenizer.Tokenize(text)

	for _, tok := range tokens {
		if tok == "the" || tok == "and" || tok == "of" {
			t.Errorf("Stopword %q should be filtered", tok)
		}
	}

	expected := []string{"rise", "fall", "ancient", "trade", "routes"}
	if len(tokens) != len(expected) {
		t.Errorf("Expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
}

func TestTokenizerHyphens(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	tokens := tokenizer.Tokenize("machine-learning and deep-learning")

	hasHyphen := false
	for _, tok := range tokens {
		if tok == "machine-learning" || tok == "deep-learning" {
			hasHyphen = true
			break
		}
	}

	if !hasHyphen {
		t.Error("Hyphenated words should be preserved")
	}
}

func TestTokenizerCaseNormalization(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	tokens := tokenizer.Tokenize("BERT GPT-4 Transformer")

	for _, tok := range tokens {
		if tok != strings.ToLower(tok) {
			t.Errorf("Token %s should be lowercased", tok)
		}
	}
}

func TestTokenizerNumericOnly(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	tokens := tokenizer.Tokenize("published 2015 as utf-8 rev 42")

	for _, tok := range tokens {
		if tok == "2015" || tok == "42" {
			t.Errorf("Pure-numeric token %q should be dropped", tok)
		}
	}

	found := false
	for _, tok := range tokens {
		if tok == "utf-8" {
			found = true
		}
	}
	if !found {
		t.Errorf("Mixed token utf-8 should be kept, got %v", tokens)
	}
}

func TestTokenizerSingleCharDropped(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	tokens := tokenizer.Tokenize("a b theory x")
	if len(tokens) != 1 || tokens[0] != "theory" {
		t.Errorf("Single-character tokens should be dropped, got %v", tokens)
	}
}

func TestTokenizerMinLength(t *testing.T) {
	tokenizer := NewTokenizer([]string{})
	tokenizer.SetMinLength(5)

	tokens := tokenizer.Tokenize("long words beat tiny ones: grammar telescope")
	for _, tok := range tokens {
		if len(tok) < 5 {
			t.Errorf("Token %q shorter than the minimum length", tok)
		}
	}
	if len(tokens) != 3 {
		t.Errorf("Expected [words grammar telescope], got %v", tokens)
	}
}

func TestAddRemoveStopword(t *testing.T) {
	tokenizer := NewTokenizer([]string{"cat"})

	tokens := tokenizer.Tokenize("cat hat")
	if len(tokens) != 1 || tokens[0] != "hat" {
		t.Errorf("Should filter 'cat', got %v", tokens)
	}

	tokenizer.RemoveStopword("cat")
	tokens = tokenizer.Tokenize("cat hat")
	if len(tokens) != 2 {
		t.Errorf("'cat' should not be filtered after removal, got %v", tokens)
	}

	tokenizer.AddStopword("hat")
	tokens = tokenizer.Tokenize("cat hat")
	if len(tokens) != 1 || tokens[0] != "cat" {
		t.Errorf("'hat' should be filtered after adding, got %v", tokens)
	}
}
