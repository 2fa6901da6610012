// Package validator provides input validation for ingestion requests. It
// enforces presence and length constraints on title and content and returns
// per-field error details.
package validator

import (
	"fmt"
	"strings"

	"github.com/ardiangashi/docsearch/internal/ingestion"
	apperrors "github.com/ardiangashi/docsearch/pkg/errors"
)

// Limits bounds the accepted title length and content size in bytes.
type Limits struct {
	MaxTitleLength int
	MaxContentSize int
}

// DefaultLimits matches the storage schema's column bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxTitleLength: 255,
		MaxContentSize: 1 << 20,
	}
}

// ValidationError holds per-field validation failure messages. It unwraps to
// ErrMissingField so callers can map it to a 400 without inspecting fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s:%s", field, msg))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrMissingField
}

// ValidateIngestRequest checks that title and content are present and within
// limits. It rejects before the index is touched.
func ValidateIngestRequest(req *ingestion.IngestRequest, limits Limits) error {
	errs := make(map[string]string)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs["title"] = "title is required"
	} else if len(title) > limits.MaxTitleLength {
		errs["title"] = fmt.Sprintf("title must be at most %d characters", limits.MaxTitleLength)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		errs["content"] = "content is required and must not be empty"
	} else if len(content) > limits.MaxContentSize {
		errs["content"] = fmt.Sprintf("content must be at most %d bytes", limits.MaxContentSize)
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
