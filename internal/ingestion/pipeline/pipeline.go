// Package pipeline orchestrates document ingestion: it validates the
// request, tokenizes the content, aggregates term frequencies, and writes
// the document with its postings through the index store in one atomic
// operation. On success it publishes an indexed event for downstream
// consumers.
package pipeline

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/ardiangashi/docsearch/internal/indexer/index"
	"github.com/ardiangashi/docsearch/internal/indexer/tokenizer"
	"github.com/ardiangashi/docsearch/internal/ingestion"
	"github.com/ardiangashi/docsearch/internal/ingestion/validator"
	apperrors "github.com/ardiangashi/docsearch/pkg/errors"
	"github.com/ardiangashi/docsearch/pkg/kafka"
	"github.com/ardiangashi/docsearch/pkg/metrics"
)

// Publisher is the event-production side of the pipeline. It is satisfied by
// kafka.Producer; a nil publisher disables events.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// Pipeline ingests documents into the inverted index.
type Pipeline struct {
	store     index.Store
	tokenizer *tokenizer.Tokenizer
	publisher Publisher
	limits    validator.Limits
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Pipeline. publisher and m may be nil.
func New(store index.Store, tok *tokenizer.Tokenizer, publisher Publisher, limits validator.Limits, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		store:     store,
		tokenizer: tok,
		publisher: publisher,
		limits:    limits,
		metrics:   m,
		logger:    slog.Default().With("component", "ingestion-pipeline"),
	}
}

// Ingest validates, tokenizes, and indexes a document, returning its new id.
// Either the whole document is indexed or none of it is: validation and
// tokenization happen before any storage write, and the store commits the
// document with all its postings atomically.
func (p *Pipeline) Ingest(ctx context.Context, title, content string) (int64, error) {
	start := time.Now()
	req := ingestion.IngestRequest{Title: title, Content: content}
	if err := validator.ValidateIngestRequest(&req, p.limits); err != nil {
		p.countFailure("validation")
		return 0, err
	}

	freqs := p.tokenizer.Counts(content)
	if len(freqs) == 0 {
		p.countFailure("empty_content")
		return 0, apperrors.New(apperrors.ErrEmptyContent, 400, "content has no indexable terms")
	}

	docID, err := p.store.IndexDocument(ctx, title, content, freqs)
	if err != nil {
		p.countFailure("storage")
		return 0, apperrors.Newf(apperrors.ErrStorageFailure, 503, "indexing document: %v", err)
	}

	tokenCount := 0
	for _, freq := range freqs {
		tokenCount += freq
	}
	if p.metrics != nil {
		p.metrics.DocsIndexedTotal.Inc()
		p.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	}
	p.logger.Info("document ingested",
		"doc_id", docID,
		"distinct_terms", len(freqs),
		"token_count", tokenCount,
	)

	// Event publication is best-effort: the document is already committed,
	// and the broker being down must not fail the ingest.
	if p.publisher != nil {
		event := kafka.Event{
			Key: strconv.FormatInt(docID, 10),
			Value: ingestion.IndexedEvent{
				DocumentID:    docID,
				Title:         title,
				DistinctTerms: len(freqs),
				TokenCount:    tokenCount,
				IndexedAt:     time.Now().UTC(),
			},
		}
		if err := p.publisher.Publish(ctx, event); err != nil {
			p.logger.Error("failed to publish indexed event", "doc_id", docID, "error", err)
		}
	}
	return docID, nil
}

func (p *Pipeline) countFailure(reason string) {
	if p.metrics != nil {
		p.metrics.IngestFailuresTotal.WithLabelValues(reason).Inc()
	}
}
