package repository

import (
	"context"
	"errors"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BattleQuestionRepository handles battle question data access. Options,
// pairs and correct indices live in structured jsonb columns validated at
// write time, so reads never re-parse stringified payloads.
type BattleQuestionRepository struct {
	pool *pgxpool.Pool
}

// NewBattleQuestionRepository creates a new BattleQuestionRepository.
func NewBattleQuestionRepository(pool *pgxpool.Pool) *BattleQuestionRepository {
	return &BattleQuestionRepository{pool: pool}
}

const questionColumns = `id, boss_id, question_type, prompt, image_url, options, pairs,
	correct_index, correct_indices, damage, hp_penalty, time_limit_seconds, order_num`

func scanQuestion(row pgx.Row) (*model.BattleQuestion, error) {
	q := &model.BattleQuestion{}
	err := row.Scan(
		&q.ID, &q.BossID, &q.QuestionType, &q.Prompt, &q.ImageURL, &q.Options, &q.Pairs,
		&q.CorrectIndex, &q.CorrectIndices, &q.Damage, &q.HPPenalty, &q.TimeLimitSeconds, &q.OrderNum,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListByBoss retrieves all questions for a boss, ordered by order_num.
func (r *BattleQuestionRepository) ListByBoss(ctx context.Context, bossID uuid.UUID) ([]model.BattleQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM battle_questions
		 WHERE boss_id = $1
		 ORDER BY order_num, id`, bossID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.BattleQuestion
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// GetByID retrieves one question.
func (r *BattleQuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BattleQuestion, error) {
	return scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM battle_questions WHERE id = $1`, id))
}

// Create inserts a new question.
func (r *BattleQuestionRepository) Create(ctx context.Context, q *model.BattleQuestion) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO battle_questions (boss_id, question_type, prompt, image_url, options,
		 	pairs, correct_index, correct_indices, damage, hp_penalty, time_limit_seconds, order_num)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		q.BossID, q.QuestionType, q.Prompt, q.ImageURL, q.Options,
		q.Pairs, q.CorrectIndex, q.CorrectIndices, q.Damage, q.HPPenalty, q.TimeLimitSeconds, q.OrderNum,
	).Scan(&q.ID)
}

// CreateBatch inserts several questions inside one transaction; used by the
// bank import so a partial batch never lands.
func (r *BattleQuestionRepository) CreateBatch(ctx context.Context, questions []model.BattleQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range questions {
		q := &questions[i]
		if err := tx.QueryRow(ctx,
			`INSERT INTO battle_questions (boss_id, question_type, prompt, image_url, options,
			 	pairs, correct_index, correct_indices, damage, hp_penalty, time_limit_seconds, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 RETURNING id`,
			q.BossID, q.QuestionType, q.Prompt, q.ImageURL, q.Options,
			q.Pairs, q.CorrectIndex, q.CorrectIndices, q.Damage, q.HPPenalty, q.TimeLimitSeconds, q.OrderNum,
		).Scan(&q.ID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Update rewrites a question's content.
func (r *BattleQuestionRepository) Update(ctx context.Context, q *model.BattleQuestion) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE battle_questions
		 SET question_type = $1, prompt = $2, image_url = $3, options = $4, pairs = $5,
		     correct_index = $6, correct_indices = $7, damage = $8, hp_penalty = $9,
		     time_limit_seconds = $10, order_num = $11
		 WHERE id = $12`,
		q.QuestionType, q.Prompt, q.ImageURL, q.Options, q.Pairs,
		q.CorrectIndex, q.CorrectIndices, q.Damage, q.HPPenalty,
		q.TimeLimitSeconds, q.OrderNum, q.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a question.
func (r *BattleQuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM battle_questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
