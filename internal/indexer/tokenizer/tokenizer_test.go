package tokenizer_test

import (
	"testing"

	"github.com/ardiangashi/docsearch/internal/indexer/tokenizer"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tok := tokenizer.New()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "punctuation stripped",
			input: "Search engines index documents.",
			want:  []string{"search", "engines", "index", "documents"},
		},
		{
			name:  "stop words removed",
			input: "the quick fox is in a hole",
			want:  []string{"quick", "fox", "hole"},
		},
		{
			name:  "albanian stop words removed",
			input: "kërkimi është i shpejtë dhe i saktë",
			want:  []string{"kërkimi", "i", "shpejtë", "i", "saktë"},
		},
		{
			name:  "mixed whitespace",
			input: "alpha\tbeta\ngamma\r\ndelta  epsilon",
			want:  []string{"alpha", "beta", "gamma", "delta", "epsilon"},
		},
		{
			name:  "punctuation-only tokens vanish",
			input: "... !!! ??? ---",
			want:  []string{},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
		{
			name:  "single stop word",
			input: "the",
			want:  []string{},
		},
		{
			name:  "digits and underscores kept",
			input: "log_2024 v2",
			want:  []string{"log_2024", "v2"},
		},
		{
			name:  "embedded punctuation merges fragments",
			input: "don't stop-word",
			want:  []string{"dont", "stopword"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tok.Tokenize(tt.input))
		})
	}
}

func TestTokenizePreservesOrder(t *testing.T) {
	tok := tokenizer.New()
	got := tok.Tokenize("zebra apple zebra mango")
	require.Equal(t, []string{"zebra", "apple", "zebra", "mango"}, got)
}

func TestCounts(t *testing.T) {
	tok := tokenizer.New()

	got := tok.Counts("index index search")
	require.Equal(t, map[string]int{"index": 2, "search": 1}, got)

	require.Empty(t, tok.Counts(""))
	require.Empty(t, tok.Counts("the and of"))
}

func TestExtraStopWords(t *testing.T) {
	tok := tokenizer.New("Foo", " bar ")
	require.Equal(t, []string{"baz"}, tok.Tokenize("foo bar baz"))
	require.True(t, tok.IsStopWord("FOO"))
	require.False(t, tok.IsStopWord("baz"))
}
