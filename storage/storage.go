package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage holds the book artifacts the ingest pipeline consumes: the
// original exam-book PDF and the per-page text JSONL extracted from it.
type Storage interface {
	// Upload stores an export and returns its storage path.
	Upload(ctx context.Context, docID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download streams an export back by storage path.
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes an export. Used to roll back an upload whose
	// database record could not be written.
	Delete(ctx context.Context, storagePath string) error
}

// StorageType selects the backend.
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig carries backend settings for NewStorage.
type StorageConfig struct {
	Type         StorageType
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates the backend named by cfg.Type.
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// NewStorageFromEnv builds export storage from environment variables.
// Local storage is the default so development works without AWS setup.
func NewStorageFromEnv() (Storage, error) {
	cfg := StorageConfig{
		Type:         StorageTypeLocal,
		LocalPath:    "./storage/exports",
		S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
		S3Region:     os.Getenv("AWS_REGION"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
	if t := os.Getenv("STORAGE_TYPE"); t != "" {
		cfg.Type = StorageType(t)
	}
	if p := os.Getenv("STORAGE_LOCAL_PATH"); p != "" {
		cfg.LocalPath = p
	}
	if cfg.S3Region == "" {
		cfg.S3Region = "us-east-1"
	}
	return NewStorage(cfg)
}

var filenameSanitizer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_")

// exportPath builds the storage path for an export. The record id keeps
// re-uploads of the same book apart; its first two characters shard the
// top-level directory.
func exportPath(docID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	base := filenameSanitizer.Replace(strings.TrimSuffix(filename, ext))
	id := docID.String()
	return fmt.Sprintf("%s/%s_%s%s", id[:2], id, base, ext)
}
