package repository

import (
	"context"

	"tivuchprep-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SourceDocumentRepository handles database operations for corpus source documents
type SourceDocumentRepository struct {
	db *pgxpool.Pool
}

// NewSourceDocumentRepository creates a new source document repository
func NewSourceDocumentRepository(db *pgxpool.Pool) *SourceDocumentRepository {
	return &SourceDocumentRepository{db: db}
}

// Create creates a new source document record
func (r *SourceDocumentRepository) Create(ctx context.Context, doc *models.SourceDocument) error {
	query := `
		INSERT INTO source_documents (
			doc_id, filename, mime_type, size, storage_path
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		doc.DocID,
		doc.Filename,
		doc.MimeType,
		doc.Size,
		doc.StoragePath,
	).Scan(&doc.ID, &doc.CreatedAt)

	return err
}

// GetByID retrieves a source document by ID
func (r *SourceDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SourceDocument, error) {
	doc := &models.SourceDocument{}
	query := `
		SELECT id, doc_id, filename, mime_type, size, storage_path, created_at
		FROM source_documents
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.DocID,
		&doc.Filename,
		&doc.MimeType,
		&doc.Size,
		&doc.StoragePath,
		&doc.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// GetLatestByDocID retrieves the most recently uploaded export for a corpus id
func (r *SourceDocumentRepository) GetLatestByDocID(ctx context.Context, docID string) (*models.SourceDocument, error) {
	doc := &models.SourceDocument{}
	query := `
		SELECT id, doc_id, filename, mime_type, size, storage_path, created_at
		FROM source_documents
		WHERE doc_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.QueryRow(ctx, query, docID).Scan(
		&doc.ID,
		&doc.DocID,
		&doc.Filename,
		&doc.MimeType,
		&doc.Size,
		&doc.StoragePath,
		&doc.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return doc, nil
}
