// Package ranker computes TF-IDF scores for candidate documents and
// produces the ranked result list with content snippets.
package ranker

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/ardiangashi/docsearch/internal/indexer/index"
)

// snippetLength is the number of characters of content shown per result.
const snippetLength = 150

// Result is one ranked search hit.
type Result struct {
	DocumentID int64   `json:"document_id"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
}

// Score computes the TF-IDF score of one document for the matched query
// terms: the sum over terms of tf * log10(totalDocs / (df + 1)). Term
// frequency is the raw occurrence count; the +1 keeps the quotient defined
// for any df and damps scores of very common terms. The result is rounded
// to 4 fractional digits for display stability.
func Score(termFreqs map[int64]int, docFreqs map[int64]int, totalDocs int64) float64 {
	var score float64
	for termID, tf := range termFreqs {
		idf := math.Log10(float64(totalDocs) / float64(docFreqs[termID]+1))
		score += float64(tf) * idf
	}
	return math.Round(score*10000) / 10000
}

// Rank scores every candidate document and returns results ordered by
// descending score. Equal scores order by ascending document id so repeated
// searches return identical rankings. A limit <= 0 returns all results.
func Rank(
	candidates map[int64]map[int64]int,
	docFreqs map[int64]int,
	totalDocs int64,
	docs map[int64]index.Document,
	limit int,
) []Result {
	results := make([]Result, 0, len(candidates))
	for docID, termFreqs := range candidates {
		doc, ok := docs[docID]
		if !ok {
			continue
		}
		results = append(results, Result{
			DocumentID: docID,
			Title:      doc.Title,
			Snippet:    Snippet(doc.Content),
			Score:      Score(termFreqs, docFreqs, totalDocs),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocumentID < results[j].DocumentID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Snippet returns the first 150 characters of content, with an ellipsis
// marker when the content is longer. Characters are runes, so multi-byte
// text is never cut mid-character.
func Snippet(content string) string {
	if utf8.RuneCountInString(content) <= snippetLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:snippetLength]) + "..."
}
