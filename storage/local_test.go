package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	id := uuid.New()

	path, err := store.Upload(ctx, id, "part1-2020.jsonl", strings.NewReader(`{"page":7}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, id.String()[:2]+"/"))

	reader, err := store.Download(ctx, path)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, `{"page":7}`, string(data))

	require.NoError(t, store.Delete(ctx, path))
	_, err = store.Download(ctx, path)
	assert.ErrorContains(t, err, "export not found")

	// deleting twice is not an error
	assert.NoError(t, store.Delete(ctx, path))
}

func TestExportPathSanitizesFilename(t *testing.T) {
	id := uuid.New()
	path := exportPath(id, "ספר הבחינה/חלק א.pdf")

	assert.NotContains(t, strings.TrimPrefix(path, id.String()[:2]+"/"), "/")
	assert.NotContains(t, path, " ")
	assert.True(t, strings.HasSuffix(path, ".pdf"))
}

func TestExportContentType(t *testing.T) {
	assert.Equal(t, "application/x-ndjson", exportContentType("pages.jsonl"))
	assert.Equal(t, "application/pdf", exportContentType("book.pdf"))
	assert.Equal(t, "application/octet-stream", exportContentType("book.bin"))
}

func TestNewStorageRejectsUnknownType(t *testing.T) {
	_, err := NewStorage(StorageConfig{Type: "ftp"})
	assert.ErrorContains(t, err, "unknown storage type")

	_, err = NewStorage(StorageConfig{Type: StorageTypeS3})
	assert.ErrorContains(t, err, "AWS_S3_BUCKET")
}
