// Command server starts the document search service.
//
// The service accepts documents via POST /api/v1/documents (JSON) and
// POST /api/v1/documents/file (multipart upload), maintains an inverted
// index in PostgreSQL, and answers TF-IDF ranked queries at
// GET /api/v1/search. Redis (query cache) and Kafka (indexed events, search
// stats) are optional: the service degrades with a warning when they are
// unreachable.
//
// Usage:
//
//	go run ./cmd/server [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ardiangashi/docsearch/internal/indexer/index"
	"github.com/ardiangashi/docsearch/internal/indexer/tokenizer"
	"github.com/ardiangashi/docsearch/internal/ingestion/extract"
	ingesthandler "github.com/ardiangashi/docsearch/internal/ingestion/handler"
	"github.com/ardiangashi/docsearch/internal/ingestion/pipeline"
	"github.com/ardiangashi/docsearch/internal/ingestion/validator"
	"github.com/ardiangashi/docsearch/internal/searcher/cache"
	"github.com/ardiangashi/docsearch/internal/searcher/evaluator"
	"github.com/ardiangashi/docsearch/internal/searcher/executor"
	searchhandler "github.com/ardiangashi/docsearch/internal/searcher/handler"
	"github.com/ardiangashi/docsearch/internal/searcher/stats"
	"github.com/ardiangashi/docsearch/pkg/config"
	"github.com/ardiangashi/docsearch/pkg/health"
	"github.com/ardiangashi/docsearch/pkg/kafka"
	"github.com/ardiangashi/docsearch/pkg/logger"
	"github.com/ardiangashi/docsearch/pkg/metrics"
	"github.com/ardiangashi/docsearch/pkg/middleware"
	"github.com/ardiangashi/docsearch/pkg/postgres"
	pkgredis "github.com/ardiangashi/docsearch/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting docsearch", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	store := index.NewPostgres(db)
	if err := store.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to postgres", "database", cfg.Postgres.Database)

	tok := tokenizer.New(cfg.Indexer.ExtraStopWords...)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownMetrics(shutdownCtx)
		}()
	}

	var queryCache *cache.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis, tok)
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	indexedProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.DocumentIndexed)
	defer indexedProducer.Close()

	limits := validator.Limits{
		MaxTitleLength: cfg.Indexer.MaxTitleLength,
		MaxContentSize: cfg.Indexer.MaxContentSize,
	}
	pipe := pipeline.New(store, tok, indexedProducer, limits, m)
	ingestH := ingesthandler.New(pipe, extract.NewRegistry(), cfg.Server.MaxUploadBytes)

	eval := evaluator.New(store, tok)
	exec := executor.New(store, eval)

	statsProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.SearchEvents)
	defer statsProducer.Close()
	collector := stats.NewCollector(statsProducer, 4096)
	collector.Start(ctx)
	defer collector.Close()

	aggregator := stats.NewAggregator()
	statsConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.SearchEvents, aggregator.Handle)
	go func() {
		if err := statsConsumer.Start(ctx); err != nil {
			slog.Error("stats consumer stopped", "error", err)
		}
	}()

	// New documents change the corpus size and document frequencies, so any
	// cached score is stale the moment an indexed event arrives.
	if queryCache != nil {
		invalidateConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.DocumentIndexed,
			func(ctx context.Context, key, value []byte) error {
				return queryCache.Invalidate(ctx)
			})
		go func() {
			if err := invalidateConsumer.Start(ctx); err != nil {
				slog.Error("cache invalidation consumer stopped", "error", err)
			}
		}()
	}

	searchH := searchhandler.New(exec, queryCache, collector, m, cfg.Search.DefaultLimit, cfg.Search.MaxResults)

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := db.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	if m != nil {
		r.Use(middleware.Metrics(m))
	}
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/documents", ingestH.Ingest)
		r.Post("/documents/file", ingestH.IngestFile)
		r.Post("/documents/seed", ingestH.Seed)
		r.Get("/search", searchH.Search)
		r.Get("/search/stats", aggregator.StatsHandler())
		r.Get("/cache/stats", searchH.CacheStats)
		r.Post("/cache/invalidate", searchH.CacheInvalidate)
	})
	r.Get("/health/live", checker.LiveHandler())
	r.Get("/health/ready", checker.ReadyHandler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("docsearch listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("docsearch stopped")
}
