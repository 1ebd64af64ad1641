package repository

import (
	"context"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BankQuestionRepository reads the question bank the surrounding platform
// maintains. The engine never writes to it.
type BankQuestionRepository struct {
	pool *pgxpool.Pool
}

// NewBankQuestionRepository creates a new BankQuestionRepository.
func NewBankQuestionRepository(pool *pgxpool.Pool) *BankQuestionRepository {
	return &BankQuestionRepository{pool: pool}
}

// ListByIDs fetches bank questions by id, preserving no particular order.
// Missing ids simply do not appear; import reports them as skipped.
func (r *BankQuestionRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.BankQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, bank_id, question_type, prompt, image_url, options, pairs,
		        correct_index, correct_indices, points, time_limit_seconds
		 FROM bank_questions
		 WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.BankQuestion
	for rows.Next() {
		var q model.BankQuestion
		if err := rows.Scan(
			&q.ID, &q.BankID, &q.QuestionType, &q.Prompt, &q.ImageURL, &q.Options, &q.Pairs,
			&q.CorrectIndex, &q.CorrectIndices, &q.Points, &q.TimeLimitSeconds,
		); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
