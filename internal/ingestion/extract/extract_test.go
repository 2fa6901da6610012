package extract_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/ardiangashi/docsearch/internal/ingestion/extract"
	apperrors "github.com/ardiangashi/docsearch/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRegistryExtract(t *testing.T) {
	r := extract.NewRegistry()
	ctx := context.Background()

	text, err := r.Extract(ctx, "notes.txt", strings.NewReader("hello world"))
	require.NoError(t, err)
	require.Equal(t, "hello world", text)

	// Extension matching is case-insensitive.
	text, err = r.Extract(ctx, "NOTES.TXT", strings.NewReader("upper"))
	require.NoError(t, err)
	require.Equal(t, "upper", text)
}

func TestRegistryUnsupportedType(t *testing.T) {
	r := extract.NewRegistry()

	for _, name := range []string{"report.pdf", "archive.zip", "noext"} {
		_, err := r.Extract(context.Background(), name, strings.NewReader("data"))
		require.ErrorIs(t, err, apperrors.ErrUnsupportedFileType, "file %q", name)
		require.Equal(t, 415, apperrors.HTTPStatusCode(err))
	}
}

func TestRegistryEmptyContent(t *testing.T) {
	r := extract.NewRegistry()

	for _, content := range []string{"", "   ", "\n\t "} {
		_, err := r.Extract(context.Background(), "blank.txt", strings.NewReader(content))
		require.ErrorIs(t, err, apperrors.ErrEmptyContent)
		require.Equal(t, 400, apperrors.HTTPStatusCode(err))
	}
}

type uppercase struct{}

func (uppercase) Extract(_ context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(string(data)), nil
}

func TestRegistryRegister(t *testing.T) {
	r := extract.NewRegistry()
	r.Register(".md", uppercase{})

	text, err := r.Extract(context.Background(), "readme.MD", strings.NewReader("loud"))
	require.NoError(t, err)
	require.Equal(t, "LOUD", text)
}
