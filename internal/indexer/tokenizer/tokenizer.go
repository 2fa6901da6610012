// Package tokenizer turns raw document text into a normalized stream of
// index terms. It lower-cases input, strips every rune that is neither a
// word character nor whitespace, splits on whitespace, and removes
// stop-words. No stemming is applied: a document matches exactly the surface
// forms it contains.
package tokenizer

import (
	"strings"
	"unicode"
)

// defaultStopWords covers common function words in English and Albanian.
var defaultStopWords = []string{
	"the", "is", "at", "which", "on", "and", "a", "an", "to", "of",
	"in", "it", "for", "with", "by",
	"është", "dhe", "në", "me", "për", "nga", "si", "kjo", "ajo",
}

// Tokenizer holds the stop-word set. It is built once at startup and
// read-only afterwards, so it is safe for concurrent use.
type Tokenizer struct {
	stopWords map[string]struct{}
}

// New creates a Tokenizer with the default stop-word list plus any extra
// words. Extra words are normalized the same way input text is.
func New(extraStopWords ...string) *Tokenizer {
	stop := make(map[string]struct{}, len(defaultStopWords)+len(extraStopWords))
	for _, w := range defaultStopWords {
		stop[w] = struct{}{}
	}
	for _, w := range extraStopWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			stop[w] = struct{}{}
		}
	}
	return &Tokenizer{stopWords: stop}
}

// Tokenize breaks text into normalized terms, preserving occurrence order.
// Empty input yields an empty slice.
func (t *Tokenizer) Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
	words := strings.Fields(strings.ToLower(cleaned))
	terms := make([]string, 0, len(words))
	for _, word := range words {
		if _, isStop := t.stopWords[word]; isStop {
			continue
		}
		terms = append(terms, word)
	}
	return terms
}

// Counts tokenizes text and aggregates term occurrences into a frequency
// map. The aggregation is a commutative reduce over the token multiset, so
// the result does not depend on token order.
func (t *Tokenizer) Counts(text string) map[string]int {
	terms := t.Tokenize(text)
	counts := make(map[string]int, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	return counts
}

// IsStopWord reports whether the normalized word is in the stop-word set.
func (t *Tokenizer) IsStopWord(word string) bool {
	_, ok := t.stopWords[strings.ToLower(word)]
	return ok
}

// isWordRune matches the \w character class: letters, digits, underscore.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
