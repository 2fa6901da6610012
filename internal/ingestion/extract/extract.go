// Package extract defines the text-extraction collaborator consumed by the
// ingestion pipeline. The pipeline only needs plain text; how it is pulled
// out of an uploaded file is this package's concern. A plain-text extractor
// ships with the service; PDF and word-processor extractors plug in through
// the same Extractor interface.
package extract

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	apperrors "github.com/ardiangashi/docsearch/pkg/errors"
)

// Extractor produces plain text from a single file format.
type Extractor interface {
	// Extract reads the file and returns its plain text. An empty string
	// with a nil error is a well-defined "no text" signal; the caller treats
	// it as an ingestion failure.
	Extract(ctx context.Context, r io.Reader) (string, error)
}

// Registry dispatches to an Extractor by file extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates a registry with the plain-text extractor registered
// for .txt files.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	r.Register(".txt", PlainText{})
	return r
}

// Register adds an extractor for the given extension (with leading dot).
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[strings.ToLower(ext)] = e
}

// Extract picks the extractor for the file's extension and runs it. Unknown
// extensions fail with ErrUnsupportedFileType; an extraction that yields no
// text fails with ErrEmptyContent.
func (r *Registry) Extract(ctx context.Context, filename string, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	extractor, ok := r.byExt[ext]
	if !ok {
		return "", apperrors.Newf(apperrors.ErrUnsupportedFileType, 415, "no extractor for %q files", ext)
	}
	text, err := extractor.Extract(ctx, reader)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", apperrors.Newf(apperrors.ErrEmptyContent, 400, "no readable text extracted from %s", filename)
	}
	return text, nil
}

// PlainText passes the file content through unchanged.
type PlainText struct{}

// Extract implements Extractor.
func (PlainText) Extract(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
