// Package executor runs the full read path for one query: evaluation
// against the index store, batched document-frequency lookups, TF-IDF
// ranking, and snippet production.
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardiangashi/docsearch/internal/indexer/index"
	"github.com/ardiangashi/docsearch/internal/searcher/evaluator"
	"github.com/ardiangashi/docsearch/internal/searcher/ranker"
)

// SearchResult is the response of one query execution.
type SearchResult struct {
	Query     string          `json:"query"`
	TotalHits int             `json:"total_hits"`
	Results   []ranker.Result `json:"results"`
}

// Executor coordinates evaluator, store, and ranker.
type Executor struct {
	store     index.Store
	evaluator *evaluator.Evaluator
	logger    *slog.Logger
}

// New creates an Executor.
func New(store index.Store, eval *evaluator.Evaluator) *Executor {
	return &Executor{
		store:     store,
		evaluator: eval,
		logger:    slog.Default().With("component", "query-executor"),
	}
}

// Execute evaluates and ranks a query. Document frequencies are fetched once
// per distinct query term, never per posting, and always from the same store
// the candidates came from, so scores are exact at evaluation time.
func (e *Executor) Execute(ctx context.Context, query string, limit int) (*SearchResult, error) {
	result := &SearchResult{
		Query:   query,
		Results: []ranker.Result{},
	}

	eval, err := e.evaluator.Evaluate(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("evaluating query %q: %w", query, err)
	}
	if eval.Empty() {
		return result, nil
	}

	termIDs := make([]int64, 0, len(eval.TermIDs))
	for _, id := range eval.TermIDs {
		termIDs = append(termIDs, id)
	}
	docFreqs, err := e.store.DocumentFrequencies(ctx, termIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching document frequencies: %w", err)
	}
	totalDocs, err := e.store.CountDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	docIDs := make([]int64, 0, len(eval.Candidates))
	for docID := range eval.Candidates {
		docIDs = append(docIDs, docID)
	}
	docs, err := e.store.Documents(ctx, docIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate documents: %w", err)
	}

	result.TotalHits = len(eval.Candidates)
	result.Results = ranker.Rank(eval.Candidates, docFreqs, totalDocs, docs, limit)

	e.logger.Debug("query executed",
		"query", query,
		"terms", eval.Terms,
		"candidates", result.TotalHits,
		"returned", len(result.Results),
	)
	return result, nil
}
