package evaluator_test

import (
	"context"
	"testing"

	"github.com/ardiangashi/docsearch/internal/indexer/index"
	"github.com/ardiangashi/docsearch/internal/indexer/tokenizer"
	"github.com/ardiangashi/docsearch/internal/searcher/evaluator"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) (*index.Memory, map[string]int64) {
	t.Helper()
	ctx := context.Background()
	store := index.NewMemory()
	tok := tokenizer.New()

	docs := map[string]string{
		"both":  "alpha beta",
		"alpha": "alpha alpha",
		"beta":  "beta gamma",
	}
	ids := make(map[string]int64, len(docs))
	for _, name := range []string{"both", "alpha", "beta"} {
		id, err := store.IndexDocument(ctx, name, docs[name], tok.Counts(docs[name]))
		require.NoError(t, err)
		ids[name] = id
	}
	return store, ids
}

func TestEvaluateIntersectsTerms(t *testing.T) {
	store, ids := seedStore(t)
	eval := evaluator.New(store, tokenizer.New())

	result, err := eval.Evaluate(context.Background(), "alpha beta")
	require.NoError(t, err)
	require.False(t, result.Empty())

	// Only the document containing both terms survives the AND.
	require.Len(t, result.Candidates, 1)
	freqs, ok := result.Candidates[ids["both"]]
	require.True(t, ok)
	require.Equal(t, 1, freqs[result.TermIDs["alpha"]])
	require.Equal(t, 1, freqs[result.TermIDs["beta"]])
}

func TestEvaluateSingleTerm(t *testing.T) {
	store, ids := seedStore(t)
	eval := evaluator.New(store, tokenizer.New())

	result, err := eval.Evaluate(context.Background(), "alpha")
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	require.Equal(t, 2, result.Candidates[ids["alpha"]][result.TermIDs["alpha"]])
	require.Equal(t, 1, result.Candidates[ids["both"]][result.TermIDs["alpha"]])
}

func TestEvaluateAbsentTermKillsQuery(t *testing.T) {
	store, _ := seedStore(t)
	eval := evaluator.New(store, tokenizer.New())

	// "alpha" exists but "omega" was never indexed, so nothing can match.
	result, err := eval.Evaluate(context.Background(), "alpha omega")
	require.NoError(t, err)
	require.True(t, result.Empty())
	require.Empty(t, result.TermIDs)
}

func TestEvaluateDeduplicatesQueryTerms(t *testing.T) {
	store, ids := seedStore(t)
	eval := evaluator.New(store, tokenizer.New())

	result, err := eval.Evaluate(context.Background(), "alpha alpha beta")
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, result.Terms)
	require.Len(t, result.Candidates, 1)
	_, ok := result.Candidates[ids["both"]]
	require.True(t, ok)
}

func TestEvaluateEmptyQueries(t *testing.T) {
	store, _ := seedStore(t)
	eval := evaluator.New(store, tokenizer.New())

	for _, query := range []string{"", "   ", "\t\n", "the and of", "!?!"} {
		result, err := eval.Evaluate(context.Background(), query)
		require.NoError(t, err, "query %q", query)
		require.True(t, result.Empty(), "query %q", query)
	}
}

func TestEvaluateNormalizesLikeIndexing(t *testing.T) {
	store, ids := seedStore(t)
	eval := evaluator.New(store, tokenizer.New())

	result, err := eval.Evaluate(context.Background(), "  ALPHA, beta!  ")
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	_, ok := result.Candidates[ids["both"]]
	require.True(t, ok)
}
