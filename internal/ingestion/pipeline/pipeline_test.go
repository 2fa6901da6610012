package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ardiangashi/docsearch/internal/indexer/index"
	"github.com/ardiangashi/docsearch/internal/indexer/tokenizer"
	"github.com/ardiangashi/docsearch/internal/ingestion"
	"github.com/ardiangashi/docsearch/internal/ingestion/pipeline"
	"github.com/ardiangashi/docsearch/internal/ingestion/validator"
	apperrors "github.com/ardiangashi/docsearch/pkg/errors"
	"github.com/ardiangashi/docsearch/pkg/kafka"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	events []kafka.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, event kafka.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

// failingStore rejects every write so the pipeline's error mapping can be
// observed without a real database.
type failingStore struct {
	index.Store
	calls int
}

func (s *failingStore) IndexDocument(context.Context, string, string, map[string]int) (int64, error) {
	s.calls++
	return 0, errors.New("connection refused")
}

func newPipeline(store index.Store, pub pipeline.Publisher) *pipeline.Pipeline {
	return pipeline.New(store, tokenizer.New(), pub, validator.DefaultLimits(), nil)
}

func TestIngest(t *testing.T) {
	store := index.NewMemory()
	pub := &capturePublisher{}
	p := newPipeline(store, pub)

	docID, err := p.Ingest(context.Background(), "Database Systems", "Database systems store and organize data efficiently")
	require.NoError(t, err)
	require.Equal(t, int64(1), docID)

	total, err := store.CountDocuments(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	require.Len(t, pub.events, 1)
	require.Equal(t, "1", pub.events[0].Key)
	event, ok := pub.events[0].Value.(ingestion.IndexedEvent)
	require.True(t, ok)
	require.Equal(t, docID, event.DocumentID)
	require.Equal(t, "Database Systems", event.Title)
	require.Positive(t, event.DistinctTerms)
	require.GreaterOrEqual(t, event.TokenCount, event.DistinctTerms)
}

func TestIngestValidationFailure(t *testing.T) {
	store := &failingStore{}
	p := newPipeline(store, nil)

	_, err := p.Ingest(context.Background(), "", "content here")
	require.ErrorIs(t, err, apperrors.ErrMissingField)
	require.Zero(t, store.calls, "validation failures must not reach the store")
}

func TestIngestEmptyContent(t *testing.T) {
	store := &failingStore{}
	p := newPipeline(store, nil)

	// Content made entirely of stop words tokenizes to nothing.
	_, err := p.Ingest(context.Background(), "notes", "the and of in")
	require.ErrorIs(t, err, apperrors.ErrEmptyContent)
	require.Equal(t, 400, apperrors.HTTPStatusCode(err))
	require.Zero(t, store.calls)
}

func TestIngestStorageFailure(t *testing.T) {
	store := &failingStore{}
	pub := &capturePublisher{}
	p := newPipeline(store, pub)

	_, err := p.Ingest(context.Background(), "notes", "real content here")
	require.ErrorIs(t, err, apperrors.ErrStorageFailure)
	require.Equal(t, 503, apperrors.HTTPStatusCode(err))
	require.Equal(t, 1, store.calls)
	require.Empty(t, pub.events, "no event without a committed document")
}

func TestIngestSurvivesPublisherFailure(t *testing.T) {
	store := index.NewMemory()
	pub := &capturePublisher{err: errors.New("broker down")}
	p := newPipeline(store, pub)

	docID, err := p.Ingest(context.Background(), "notes", "content that indexes fine")
	require.NoError(t, err)
	require.Positive(t, docID)
}

func TestIngestNilPublisher(t *testing.T) {
	p := newPipeline(index.NewMemory(), nil)

	docID, err := p.Ingest(context.Background(), "notes", "works without events")
	require.NoError(t, err)
	require.Positive(t, docID)
}
