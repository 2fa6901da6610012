// Package ingestion defines the request/response types and event schemas
// used by the document ingestion pipeline.
package ingestion

import "time"

// IngestRequest is the JSON body accepted by the document upload endpoint.
type IngestRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// IngestResponse is returned to the caller after a document is indexed.
type IngestResponse struct {
	DocumentID int64  `json:"document_id"`
	Status     string `json:"status"`
}

// IndexedEvent is the Kafka message payload produced after a document and
// all of its postings are committed. Subscribers use it to invalidate
// cached query results, since both document counts and document frequencies
// have changed.
type IndexedEvent struct {
	DocumentID    int64     `json:"document_id"`
	Title         string    `json:"title"`
	DistinctTerms int       `json:"distinct_terms"`
	TokenCount    int       `json:"token_count"`
	IndexedAt     time.Time `json:"indexed_at"`
}
