package repository

import (
	"context"
	"fmt"

	"tivuchprep-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GeneratedQuestionRepository handles database operations for generated questions
type GeneratedQuestionRepository struct {
	db *pgxpool.Pool
}

// NewGeneratedQuestionRepository creates a new generated question repository
func NewGeneratedQuestionRepository(db *pgxpool.Pool) *GeneratedQuestionRepository {
	return &GeneratedQuestionRepository{db: db}
}

// Insert stores one generated question. Re-ingesting the same source block is
// a no-op (ON CONFLICT DO NOTHING keyed on doc, block and source hash).
func (r *GeneratedQuestionRepository) Insert(ctx context.Context, q *models.GeneratedQuestion) error {
	query := `
		INSERT INTO generated_questions (
			doc_id, page, block_id, question, ref_title, ref_note,
			choices, correct_index, explanation, source_block_sha
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (doc_id, block_id, source_block_sha) DO NOTHING`

	_, err := r.db.Exec(ctx, query,
		q.DocID,
		q.Page,
		q.BlockID,
		q.Question,
		q.RefTitle,
		q.RefNote,
		q.Choices,
		q.CorrectIndex,
		q.Explanation,
		q.SourceBlockSHA,
	)
	if err != nil {
		return fmt.Errorf("failed to insert generated question: %w", err)
	}
	return nil
}

// ListByDoc retrieves generated questions for a document, newest first.
func (r *GeneratedQuestionRepository) ListByDoc(ctx context.Context, docID string, limit, offset int) ([]*models.GeneratedQuestion, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, doc_id, page, block_id, question, ref_title, ref_note,
			choices, correct_index, explanation, source_block_sha, created_at
		FROM generated_questions
		WHERE doc_id = $1
		ORDER BY created_at DESC, page ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, docID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*models.GeneratedQuestion
	for rows.Next() {
		q := &models.GeneratedQuestion{}
		err := rows.Scan(
			&q.ID,
			&q.DocID,
			&q.Page,
			&q.BlockID,
			&q.Question,
			&q.RefTitle,
			&q.RefNote,
			&q.Choices,
			&q.CorrectIndex,
			&q.Explanation,
			&q.SourceBlockSHA,
			&q.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}
