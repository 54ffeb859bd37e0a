package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceDocument is an uploaded corpus source (a page-text export of the exam
// book) held in storage until the ingest tool consumes it.
type SourceDocument struct {
	ID          uuid.UUID `json:"id"`
	DocID       string    `json:"doc_id"` // corpus id, e.g. "part1-2020"
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}
