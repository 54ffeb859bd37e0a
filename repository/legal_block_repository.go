package repository

import (
	"context"
	"fmt"
	"strings"

	"tivuchprep-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LegalBlockRepository handles database operations for exam-book blocks
type LegalBlockRepository struct {
	db *pgxpool.Pool
}

// NewLegalBlockRepository creates a new legal block repository
func NewLegalBlockRepository(db *pgxpool.Pool) *LegalBlockRepository {
	return &LegalBlockRepository{db: db}
}

// BlockRecord is a block together with its embedding, as stored at ingest time.
type BlockRecord struct {
	Block     models.LegalBlock
	Embedding []float32
}

// formatVector formats an embedding vector as a string for pgx
func formatVector(embedding []float32) interface{} {
	if len(embedding) == 0 {
		return nil
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// PageExists reports whether the page was already ingested with the same
// content hash, allowing idempotent re-runs of the ingest tool.
func (r *LegalBlockRepository) PageExists(ctx context.Context, docID string, pageNumber int, pageSHA string) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM legal_blocks
		WHERE doc_id = $1 AND page_number = $2 AND page_sha = $3`

	err := r.db.QueryRow(ctx, query, docID, pageNumber, pageSHA).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check page existence: %w", err)
	}
	return count > 0, nil
}

// ReplacePageBlocks stores the blocks of one page in a transaction, deleting
// any stale rows from a previous ingest of the same page first.
func (r *LegalBlockRepository) ReplacePageBlocks(ctx context.Context, docID string, pageNumber int, pageSHA string, records []BlockRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM legal_blocks WHERE doc_id = $1 AND page_number = $2`, docID, pageNumber)
	if err != nil {
		return fmt.Errorf("failed to delete stale blocks: %w", err)
	}

	query := `
		INSERT INTO legal_blocks (
			doc_id, page_sha, page_number, block_id, text,
			section_hint, char_start, char_end, embedding
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9::vector)`

	for _, rec := range records {
		_, err = tx.Exec(ctx, query,
			docID,
			pageSHA,
			pageNumber,
			rec.Block.BlockID,
			rec.Block.Text,
			rec.Block.SectionHint,
			rec.Block.CharStart,
			rec.Block.CharEnd,
			formatVector(rec.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to insert block %s: %w", rec.Block.BlockID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Search performs a vector search for the most relevant blocks of a document,
// optionally restricted to pages whose section hint matches sectionFilter.
func (r *LegalBlockRepository) Search(
	ctx context.Context,
	embedding []float32,
	docID string,
	sectionFilter string,
	limit int,
) ([]models.LegalBlock, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("embedding must not be empty")
	}

	vectorStr := formatVector(embedding)

	var sectionClause string
	var args []interface{}
	if sectionFilter == "" {
		sectionClause = ""
		args = []interface{}{vectorStr, docID, limit}
	} else {
		sectionClause = "AND section_hint ILIKE '%' || $4 || '%'"
		args = []interface{}{vectorStr, docID, limit, sectionFilter}
	}

	query := fmt.Sprintf(`
		SELECT
			doc_id,
			page_number,
			block_id,
			text,
			COALESCE(section_hint, ''),
			char_start,
			char_end,
			embedding <=> $1::vector AS distance
		FROM legal_blocks
		WHERE doc_id = $2
		%s
		ORDER BY embedding <=> $1::vector
		LIMIT $3`, sectionClause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query legal blocks: %w", err)
	}
	defer rows.Close()

	var blocks []models.LegalBlock
	for rows.Next() {
		var block models.LegalBlock
		err := rows.Scan(
			&block.DocID,
			&block.PageNumber,
			&block.BlockID,
			&block.Text,
			&block.SectionHint,
			&block.CharStart,
			&block.CharEnd,
			&block.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legal block: %w", err)
		}
		blocks = append(blocks, block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legal blocks: %w", err)
	}

	return blocks, nil
}
