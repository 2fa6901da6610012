package index

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ardiangashi/docsearch/pkg/postgres"
	"github.com/ardiangashi/docsearch/pkg/resilience"
	"github.com/lib/pq"
)

// Postgres is the durable Store. Terms are interned with a single
// INSERT ... ON CONFLICT upsert instead of a read-then-insert sequence, so
// two concurrent ingestions observing the same new word cannot race. Each
// IndexDocument call runs in one transaction, which makes ingestion atomic
// at document granularity.
type Postgres struct {
	client *postgres.Client
	logger *slog.Logger
}

// NewPostgres wraps a postgres client as a Store.
func NewPostgres(client *postgres.Client) *Postgres {
	return &Postgres{
		client: client,
		logger: slog.Default().With("component", "index-store"),
	}
}

// EnsureSchema creates the documents, terms, and postings tables when they
// do not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id      BIGSERIAL PRIMARY KEY,
			title   VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS terms (
			id   BIGSERIAL PRIMARY KEY,
			word VARCHAR(100) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS postings (
			term_id   BIGINT NOT NULL REFERENCES terms (id),
			doc_id    BIGINT NOT NULL REFERENCES documents (id),
			frequency INT NOT NULL CHECK (frequency > 0),
			PRIMARY KEY (term_id, doc_id)
		)`,
		`CREATE INDEX IF NOT EXISTS postings_doc_id_idx ON postings (doc_id)`,
	}
	for _, stmt := range stmts {
		if _, err := p.client.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}

// IndexDocument implements Store. The document row, term interning, and all
// posting writes share one transaction; on any failure the transaction rolls
// back and nothing is indexed. Transient serialization and deadlock failures
// are retried as a whole.
func (p *Postgres) IndexDocument(ctx context.Context, title, content string, freqs map[string]int) (int64, error) {
	var docID int64
	err := resilience.Retry(ctx, "index-document", resilience.RetryConfig{MaxAttempts: 3}, func() error {
		return p.client.InTx(ctx, func(tx *sql.Tx) error {
			err := tx.QueryRowContext(ctx,
				`INSERT INTO documents (title, content) VALUES ($1, $2) RETURNING id`,
				title, content,
			).Scan(&docID)
			if err != nil {
				return fmt.Errorf("inserting document: %w", err)
			}
			for word, freq := range freqs {
				if freq <= 0 {
					continue
				}
				var termID int64
				err := tx.QueryRowContext(ctx,
					`INSERT INTO terms (word) VALUES ($1)
					 ON CONFLICT (word) DO UPDATE SET word = EXCLUDED.word
					 RETURNING id`,
					word,
				).Scan(&termID)
				if err != nil {
					return fmt.Errorf("interning term %q: %w", word, err)
				}
				_, err = tx.ExecContext(ctx,
					`INSERT INTO postings (term_id, doc_id, frequency) VALUES ($1, $2, $3)
					 ON CONFLICT (term_id, doc_id) DO UPDATE SET frequency = EXCLUDED.frequency`,
					termID, docID, freq,
				)
				if err != nil {
					return fmt.Errorf("writing posting for term %q: %w", word, err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	p.logger.Debug("document indexed", "doc_id", docID, "distinct_terms", len(freqs))
	return docID, nil
}

// CountDocuments implements Store.
func (p *Postgres) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := p.client.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// FindTerms implements Store.
func (p *Postgres) FindTerms(ctx context.Context, words []string) (map[string]int64, error) {
	if len(words) == 0 {
		return map[string]int64{}, nil
	}
	rows, err := p.client.DB.QueryContext(ctx,
		`SELECT id, word FROM terms WHERE word = ANY($1)`, pq.Array(words))
	if err != nil {
		return nil, fmt.Errorf("finding terms: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int64, len(words))
	for rows.Next() {
		var id int64
		var word string
		if err := rows.Scan(&id, &word); err != nil {
			return nil, fmt.Errorf("scanning term row: %w", err)
		}
		result[word] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating term rows: %w", err)
	}
	return result, nil
}

// FindPostings implements Store.
func (p *Postgres) FindPostings(ctx context.Context, termIDs []int64) ([]Posting, error) {
	if len(termIDs) == 0 {
		return nil, nil
	}
	rows, err := p.client.DB.QueryContext(ctx,
		`SELECT term_id, doc_id, frequency FROM postings WHERE term_id = ANY($1)`,
		pq.Array(termIDs))
	if err != nil {
		return nil, fmt.Errorf("finding postings: %w", err)
	}
	defer rows.Close()

	var result []Posting
	for rows.Next() {
		var posting Posting
		if err := rows.Scan(&posting.TermID, &posting.DocID, &posting.Frequency); err != nil {
			return nil, fmt.Errorf("scanning posting row: %w", err)
		}
		result = append(result, posting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posting rows: %w", err)
	}
	return result, nil
}

// DocumentFrequencies implements Store. One grouped query serves every
// requested term.
func (p *Postgres) DocumentFrequencies(ctx context.Context, termIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int, len(termIDs))
	if len(termIDs) == 0 {
		return result, nil
	}
	rows, err := p.client.DB.QueryContext(ctx,
		`SELECT term_id, COUNT(*) FROM postings WHERE term_id = ANY($1) GROUP BY term_id`,
		pq.Array(termIDs))
	if err != nil {
		return nil, fmt.Errorf("counting document frequencies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var termID int64
		var df int
		if err := rows.Scan(&termID, &df); err != nil {
			return nil, fmt.Errorf("scanning frequency row: %w", err)
		}
		result[termID] = df
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating frequency rows: %w", err)
	}
	for _, termID := range termIDs {
		if _, ok := result[termID]; !ok {
			result[termID] = 0
		}
	}
	return result, nil
}

// Documents implements Store.
func (p *Postgres) Documents(ctx context.Context, ids []int64) (map[int64]Document, error) {
	result := make(map[int64]Document, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := p.client.DB.QueryContext(ctx,
		`SELECT id, title, content FROM documents WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("fetching documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		result[doc.ID] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return result, nil
}
