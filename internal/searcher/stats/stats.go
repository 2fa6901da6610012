// Package stats collects per-query search events, ships them through Kafka,
// and aggregates them into corpus-level usage statistics (query volume,
// zero-result queries, top queries).
package stats

import "time"

// SearchEvent describes one executed search.
type SearchEvent struct {
	Query     string    `json:"query"`
	Terms     []string  `json:"terms"`
	TotalHits int       `json:"total_hits"`
	Returned  int       `json:"returned"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
