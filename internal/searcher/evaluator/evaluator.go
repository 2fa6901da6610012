// Package evaluator turns a query string into the set of candidate
// documents that contain every distinct query term, together with the
// per-document frequencies of those terms.
package evaluator

import (
	"context"
	"fmt"

	"github.com/ardiangashi/docsearch/internal/indexer/index"
	"github.com/ardiangashi/docsearch/internal/indexer/tokenizer"
)

// Evaluation is the read-path output handed to the ranker: for each
// candidate document, the frequency of every query term inside it, plus the
// resolved term ids for document-frequency lookups.
type Evaluation struct {
	// Terms is the distinct normalized query terms in first-seen order.
	Terms []string
	// TermIDs maps each term to its interned id. Complete only when the
	// query matched; a query with any term missing from the whole index
	// produces an empty Evaluation instead.
	TermIDs map[string]int64
	// Candidates maps document id to term id to in-document frequency.
	// Every candidate contains all query terms.
	Candidates map[int64]map[int64]int
}

// Empty reports whether the evaluation matched no documents.
func (e *Evaluation) Empty() bool {
	return len(e.Candidates) == 0
}

// Evaluator resolves queries against the index store using the same
// tokenization rules documents are indexed with.
type Evaluator struct {
	store     index.Store
	tokenizer *tokenizer.Tokenizer
}

// New creates an Evaluator.
func New(store index.Store, tok *tokenizer.Tokenizer) *Evaluator {
	return &Evaluator{store: store, tokenizer: tok}
}

// Evaluate tokenizes the query, deduplicates terms, and intersects their
// postings lists: only documents containing every distinct query term
// survive (boolean AND). An empty or whitespace-only query, and a query with
// any term entirely absent from the index, both yield an empty evaluation
// rather than an error.
func (e *Evaluator) Evaluate(ctx context.Context, query string) (*Evaluation, error) {
	terms := dedupe(e.tokenizer.Tokenize(query))
	result := &Evaluation{
		Terms:      terms,
		TermIDs:    map[string]int64{},
		Candidates: map[int64]map[int64]int{},
	}
	if len(terms) == 0 {
		return result, nil
	}

	termIDs, err := e.store.FindTerms(ctx, terms)
	if err != nil {
		return nil, fmt.Errorf("resolving query terms: %w", err)
	}
	// A required term the corpus has never seen makes the AND unsatisfiable.
	if len(termIDs) < len(terms) {
		return result, nil
	}
	result.TermIDs = termIDs

	ids := make([]int64, 0, len(termIDs))
	for _, id := range termIDs {
		ids = append(ids, id)
	}
	postings, err := e.store.FindPostings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching postings: %w", err)
	}

	byDoc := make(map[int64]map[int64]int)
	for _, p := range postings {
		freqs, ok := byDoc[p.DocID]
		if !ok {
			freqs = make(map[int64]int, len(terms))
			byDoc[p.DocID] = freqs
		}
		freqs[p.TermID] = p.Frequency
	}
	for docID, freqs := range byDoc {
		if len(freqs) == len(terms) {
			result.Candidates[docID] = freqs
		}
	}
	return result, nil
}

// dedupe keeps the first occurrence of each term.
func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	result := make([]string, 0, len(terms))
	for _, term := range terms {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		result = append(result, term)
	}
	return result
}
