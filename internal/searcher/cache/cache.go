// Package cache is a Redis-backed cache for search results. Keys are built
// from the normalized query term set, so "alpha beta" and "Beta  alpha!"
// share an entry. Concurrent misses for the same key are collapsed with
// singleflight, and the whole cache is invalidated whenever the index
// changes (new documents shift both corpus size and document frequencies,
// which changes every score).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/ardiangashi/docsearch/internal/indexer/tokenizer"
	"github.com/ardiangashi/docsearch/internal/searcher/executor"
	"github.com/ardiangashi/docsearch/pkg/config"
	pkgredis "github.com/ardiangashi/docsearch/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "search:"

// QueryCache caches executed search results in Redis.
type QueryCache struct {
	client    *pkgredis.Client
	cfg       config.RedisConfig
	tokenizer *tokenizer.Tokenizer
	group     singleflight.Group
	logger    *slog.Logger
	hits      atomic.Int64
	misses    atomic.Int64
}

// New creates a QueryCache. The tokenizer must be the same one documents and
// queries are normalized with, so cache keys agree with query semantics.
func New(client *pkgredis.Client, cfg config.RedisConfig, tok *tokenizer.Tokenizer) *QueryCache {
	return &QueryCache{
		client:    client,
		cfg:       cfg,
		tokenizer: tok,
		logger:    slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached result for a query, if present.
func (c *QueryCache) Get(ctx context.Context, query string, limit int) (*executor.SearchResult, bool) {
	key := c.buildKey(query, limit)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result executor.SearchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &result, true
}

// Set stores a result under the query's normalized key.
func (c *QueryCache) Set(ctx context.Context, query string, limit int, result *executor.SearchResult) {
	key := c.buildKey(query, limit)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns a cached result or computes and stores one, making
// sure only a single computation runs per key at a time. The second return
// value reports whether the result came from the cache.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	limit int,
	computeFn func() (*executor.SearchResult, error),
) (*executor.SearchResult, bool, error) {
	if result, ok := c.Get(ctx, query, limit); ok {
		return result, true, nil
	}
	key := c.buildKey(query, limit)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, query, limit); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, limit, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*executor.SearchResult), false, nil
}

// Invalidate removes every cached search result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns hit and miss counts since startup.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey hashes the sorted distinct query terms and the limit. Queries are
// AND-only, so term order and duplicates never change the result.
func (c *QueryCache) buildKey(query string, limit int) string {
	terms := c.tokenizer.Tokenize(query)
	distinct := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		distinct[term] = struct{}{}
	}
	sorted := make([]string, 0, len(distinct))
	for term := range distinct {
		sorted = append(sorted, term)
	}
	sort.Strings(sorted)

	raw := fmt.Sprintf("%s:limit=%d", strings.Join(sorted, ","), limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
