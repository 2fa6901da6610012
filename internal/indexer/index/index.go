// Package index defines the inverted-index data model (documents, interned
// terms, postings) and the Store interface over its durable persistence. Two
// implementations are provided: an in-process memory store and a
// PostgreSQL-backed store.
package index

import "context"

// Document is an ingested document. Identity is assigned at ingestion and
// title/content are immutable afterwards.
type Document struct {
	ID      int64
	Title   string
	Content string
}

// Posting associates an interned term with a document and the number of
// times the term occurs in that document after normalization. The pair
// (TermID, DocID) is the natural key; Frequency is always >= 1 for a stored
// posting.
type Posting struct {
	TermID    int64
	DocID     int64
	Frequency int
}

// Store is the durable persistence consumed by the indexing pipeline and the
// query evaluator.
//
// IndexDocument is atomic at document granularity: either the document row
// and all of its postings are committed, or nothing is. Re-indexing the same
// title creates a new document; deduplication is deliberately not performed.
type Store interface {
	// IndexDocument persists a document and the postings derived from its
	// term-frequency map, interning previously unseen terms, and returns the
	// new document id. Entries with frequency <= 0 are ignored.
	IndexDocument(ctx context.Context, title, content string, freqs map[string]int) (int64, error)

	// CountDocuments returns the total number of documents in the corpus.
	CountDocuments(ctx context.Context) (int64, error)

	// FindTerms resolves normalized words to term ids. Words absent from the
	// index are simply missing from the result map.
	FindTerms(ctx context.Context, words []string) (map[string]int64, error)

	// FindPostings returns every posting whose term id is in termIDs.
	FindPostings(ctx context.Context, termIDs []int64) ([]Posting, error)

	// DocumentFrequencies returns, for each requested term id, the number of
	// distinct documents containing that term. The lookup is batched so
	// scoring never issues one storage call per posting.
	DocumentFrequencies(ctx context.Context, termIDs []int64) (map[int64]int, error)

	// Documents fetches documents by id, keyed by id in the result. Unknown
	// ids are missing from the map.
	Documents(ctx context.Context, ids []int64) (map[int64]Document, error)
}
