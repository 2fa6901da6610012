package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/ardiangashi/docsearch/pkg/kafka"
)

// Aggregator consumes search events and maintains in-process usage counters.
type Aggregator struct {
	mu           sync.RWMutex
	totalQueries int64
	zeroResults  int64
	cacheHits    int64
	latencySumMs int64
	queryCounts  map[string]int64
	logger       *slog.Logger
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		queryCounts: make(map[string]int64),
		logger:      slog.Default().With("component", "stats-aggregator"),
	}
}

// Handle is the kafka.MessageHandler that feeds the aggregator.
func (a *Aggregator) Handle(ctx context.Context, key, value []byte) error {
	event, err := kafka.DecodeJSON[SearchEvent](value)
	if err != nil {
		return err
	}
	a.Record(event)
	return nil
}

// Record folds one event into the counters.
func (a *Aggregator) Record(event SearchEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalQueries++
	a.latencySumMs += event.LatencyMs
	if event.TotalHits == 0 {
		a.zeroResults++
	}
	if event.CacheHit {
		a.cacheHits++
	}
	a.queryCounts[event.Query]++
}

// QueryCount is one entry of the top-queries list.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Summary is the aggregate view served by the stats endpoint.
type Summary struct {
	TotalQueries int64        `json:"total_queries"`
	ZeroResults  int64        `json:"zero_results"`
	CacheHits    int64        `json:"cache_hits"`
	AvgLatencyMs float64      `json:"avg_latency_ms"`
	TopQueries   []QueryCount `json:"top_queries"`
}

// Summarize returns the current counters with the top n queries by volume.
func (a *Aggregator) Summarize(n int) Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	top := make([]QueryCount, 0, len(a.queryCounts))
	for query, count := range a.queryCounts {
		top = append(top, QueryCount{Query: query, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Query < top[j].Query
	})
	if n > 0 && len(top) > n {
		top = top[:n]
	}

	summary := Summary{
		TotalQueries: a.totalQueries,
		ZeroResults:  a.zeroResults,
		CacheHits:    a.cacheHits,
		TopQueries:   top,
	}
	if a.totalQueries > 0 {
		summary.AvgLatencyMs = float64(a.latencySumMs) / float64(a.totalQueries)
	}
	return summary
}

// StatsHandler serves the aggregated summary as JSON.
func (a *Aggregator) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(a.Summarize(10)); err != nil {
			a.logger.Error("failed to write stats response", "error", err)
		}
	}
}
