package ranker_test

import (
	"strings"
	"testing"

	"github.com/ardiangashi/docsearch/internal/indexer/index"
	"github.com/ardiangashi/docsearch/internal/searcher/ranker"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		termFreqs map[int64]int
		docFreqs  map[int64]int
		totalDocs int64
		want      float64
	}{
		{
			name:      "single rare term",
			termFreqs: map[int64]int{1: 2},
			docFreqs:  map[int64]int{1: 1},
			totalDocs: 10,
			want:      1.3979, // 2 * log10(10/2)
		},
		{
			name:      "ubiquitous term scores zero",
			termFreqs: map[int64]int{1: 1},
			docFreqs:  map[int64]int{1: 9},
			totalDocs: 10,
			want:      0,
		},
		{
			name:      "term in every document of a small corpus goes negative",
			termFreqs: map[int64]int{1: 1},
			docFreqs:  map[int64]int{1: 3},
			totalDocs: 3,
			want:      -0.1249,
		},
		{
			name:      "multiple terms sum before rounding",
			termFreqs: map[int64]int{1: 2, 2: 1},
			docFreqs:  map[int64]int{1: 1, 2: 4},
			totalDocs: 10,
			want:      1.699, // 2*log10(5) + log10(2)
		},
		{
			name:      "no matched terms",
			termFreqs: map[int64]int{},
			docFreqs:  map[int64]int{},
			totalDocs: 10,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ranker.Score(tt.termFreqs, tt.docFreqs, tt.totalDocs)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRankOrdersByScoreThenDocID(t *testing.T) {
	docs := map[int64]index.Document{
		1: {ID: 1, Title: "one", Content: "alpha"},
		2: {ID: 2, Title: "two", Content: "alpha alpha"},
		3: {ID: 3, Title: "three", Content: "alpha"},
	}
	// Docs 1 and 3 tie on score; doc 2 has a higher term frequency.
	candidates := map[int64]map[int64]int{
		1: {10: 1},
		2: {10: 2},
		3: {10: 1},
	}
	docFreqs := map[int64]int{10: 3}

	results := ranker.Rank(candidates, docFreqs, 10, docs, 0)
	require.Len(t, results, 3)
	require.Equal(t, int64(2), results[0].DocumentID)
	require.Equal(t, int64(1), results[1].DocumentID)
	require.Equal(t, int64(3), results[2].DocumentID)
	require.Equal(t, results[1].Score, results[2].Score)
}

func TestRankAppliesLimit(t *testing.T) {
	docs := map[int64]index.Document{
		1: {ID: 1, Title: "one"},
		2: {ID: 2, Title: "two"},
		3: {ID: 3, Title: "three"},
	}
	candidates := map[int64]map[int64]int{
		1: {10: 1},
		2: {10: 3},
		3: {10: 2},
	}
	docFreqs := map[int64]int{10: 3}

	results := ranker.Rank(candidates, docFreqs, 10, docs, 2)
	require.Len(t, results, 2)
	require.Equal(t, int64(2), results[0].DocumentID)
	require.Equal(t, int64(3), results[1].DocumentID)
}

func TestRankSkipsMissingDocuments(t *testing.T) {
	docs := map[int64]index.Document{1: {ID: 1, Title: "one"}}
	candidates := map[int64]map[int64]int{
		1: {10: 1},
		2: {10: 5}, // no document row fetched for this id
	}
	results := ranker.Rank(candidates, map[int64]int{10: 2}, 10, docs, 0)
	require.Len(t, results, 1)
	require.Equal(t, int64(1), results[0].DocumentID)
}

func TestSnippet(t *testing.T) {
	short := strings.Repeat("a", 100)
	require.Equal(t, short, ranker.Snippet(short))

	exact := strings.Repeat("b", 150)
	require.Equal(t, exact, ranker.Snippet(exact))

	long := strings.Repeat("c", 200)
	got := ranker.Snippet(long)
	require.Equal(t, strings.Repeat("c", 150)+"...", got)

	// Rune-counted, not byte-counted.
	multibyte := strings.Repeat("ë", 151)
	got = ranker.Snippet(multibyte)
	require.Equal(t, strings.Repeat("ë", 150)+"...", got)
}
