// Package errors defines the sentinel errors surfaced by the search core and
// their mapping to HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyContent means a document had no extractable or normalizable
	// text; ingestion is refused and nothing is indexed.
	ErrEmptyContent = errors.New("empty content")
	// ErrMissingField means the title or content was absent; the request is
	// rejected before touching the index.
	ErrMissingField = errors.New("missing required field")
	// ErrUnsupportedFileType means no extractor can produce text for the
	// uploaded file.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrStorageFailure means a durable-store call failed; the operation is
	// aborted with no partial state committed.
	ErrStorageFailure = errors.New("storage failure")

	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")
)

// AppError pairs a sentinel error with a human-readable message and the HTTP
// status it should produce.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New wraps a sentinel error into an AppError.
func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Newf is New with a formatted message.
func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps an error to the HTTP status code it should produce.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrStorageFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
