package index_test

import (
	"context"
	"sync"
	"testing"

	"github.com/ardiangashi/docsearch/internal/indexer/index"
	"github.com/ardiangashi/docsearch/internal/indexer/tokenizer"
	"github.com/stretchr/testify/require"
)

func TestIndexDocument(t *testing.T) {
	ctx := context.Background()
	store := index.NewMemory()
	tok := tokenizer.New()

	docID, err := store.IndexDocument(ctx, "notes", "index index search", tok.Counts("index index search"))
	require.NoError(t, err)
	require.Equal(t, int64(1), docID)

	terms, err := store.FindTerms(ctx, []string{"index", "search", "missing"})
	require.NoError(t, err)
	require.Len(t, terms, 2)

	postings, err := store.FindPostings(ctx, []int64{terms["index"]})
	require.NoError(t, err)
	require.Len(t, postings, 1)
	require.Equal(t, docID, postings[0].DocID)
	require.Equal(t, 2, postings[0].Frequency)

	docs, err := store.Documents(ctx, []int64{docID})
	require.NoError(t, err)
	require.Equal(t, "notes", docs[docID].Title)
}

// The sum of posting frequencies for a document must equal the number of
// tokens the tokenizer produced for it.
func TestPostingFrequenciesSumToTokenCount(t *testing.T) {
	ctx := context.Background()
	store := index.NewMemory()
	tok := tokenizer.New()

	content := "database systems store data databases organize data efficiently"
	terms := tok.Tokenize(content)
	docID, err := store.IndexDocument(ctx, "db", content, tok.Counts(content))
	require.NoError(t, err)

	ids, err := store.FindTerms(ctx, terms)
	require.NoError(t, err)
	termIDs := make([]int64, 0, len(ids))
	for _, id := range ids {
		termIDs = append(termIDs, id)
	}
	postings, err := store.FindPostings(ctx, termIDs)
	require.NoError(t, err)

	total := 0
	for _, p := range postings {
		require.Equal(t, docID, p.DocID)
		require.GreaterOrEqual(t, p.Frequency, 1)
		total += p.Frequency
	}
	require.Equal(t, len(terms), total)
}

func TestUpsertTermIdempotent(t *testing.T) {
	store := index.NewMemory()

	first := store.UpsertTerm("search")
	second := store.UpsertTerm("search")
	other := store.UpsertTerm("engine")

	require.Equal(t, first, second)
	require.NotEqual(t, first, other)
}

func TestAddPosting(t *testing.T) {
	store := index.NewMemory()
	termID := store.UpsertTerm("search")

	store.AddPosting(termID, 1, 3)
	store.AddPosting(termID, 1, 5) // replace, not accumulate
	store.AddPosting(termID, 2, 0) // ignored
	store.AddPosting(termID, 3, -1)

	postings := store.PostingsFor(termID)
	require.Len(t, postings, 1)
	require.Equal(t, 5, postings[0].Frequency)
	require.Equal(t, 1, store.DocumentFrequency(termID))
}

func TestDocumentFrequencyNeverExceedsCorpusSize(t *testing.T) {
	ctx := context.Background()
	store := index.NewMemory()
	tok := tokenizer.New()

	contents := []string{
		"search engines rank documents",
		"search relevance scoring",
		"databases index records",
	}
	for _, c := range contents {
		_, err := store.IndexDocument(ctx, "doc", c, tok.Counts(c))
		require.NoError(t, err)
	}

	total, err := store.CountDocuments(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)

	ids, err := store.FindTerms(ctx, []string{"search", "index", "documents"})
	require.NoError(t, err)
	termIDs := make([]int64, 0, len(ids))
	for _, id := range ids {
		termIDs = append(termIDs, id)
	}
	dfs, err := store.DocumentFrequencies(ctx, termIDs)
	require.NoError(t, err)
	for _, df := range dfs {
		require.GreaterOrEqual(t, df, 1)
		require.LessOrEqual(t, int64(df), total)
	}
	require.Equal(t, 2, dfs[ids["search"]])
}

func TestDocumentFrequenciesZeroFill(t *testing.T) {
	ctx := context.Background()
	store := index.NewMemory()

	dfs, err := store.DocumentFrequencies(ctx, []int64{42})
	require.NoError(t, err)
	require.Equal(t, map[int64]int{42: 0}, dfs)
}

func TestConcurrentIndexing(t *testing.T) {
	ctx := context.Background()
	store := index.NewMemory()
	tok := tokenizer.New()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.IndexDocument(ctx, "doc", "shared term shared", tok.Counts("shared term shared"))
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	total, err := store.CountDocuments(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(workers), total)

	ids, err := store.FindTerms(ctx, []string{"shared"})
	require.NoError(t, err)
	require.Equal(t, workers, store.DocumentFrequency(ids["shared"]))
}

func TestContextCancellation(t *testing.T) {
	store := index.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.IndexDocument(ctx, "doc", "text", map[string]int{"text": 1})
	require.ErrorIs(t, err, context.Canceled)
	_, err = store.CountDocuments(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
