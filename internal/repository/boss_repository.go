package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// BossRepository handles boss definition data access.
type BossRepository struct {
	pool *pgxpool.Pool
}

// NewBossRepository creates a new BossRepository.
func NewBossRepository(pool *pgxpool.Pool) *BossRepository {
	return &BossRepository{pool: pool}
}

const bossColumns = `id, classroom_id, name, boss_name, boss_hp, boss_image_url, battle_mode,
	xp_reward, gp_reward, participant_bonus, competency_id, status, created_at, updated_at`

func scanBoss(row pgx.Row) (*model.Boss, error) {
	b := &model.Boss{}
	err := row.Scan(
		&b.ID, &b.ClassroomID, &b.Name, &b.BossName, &b.BossHP, &b.BossImageURL,
		&b.BattleMode, &b.XPReward, &b.GPReward, &b.ParticipantBonus, &b.CompetencyID,
		&b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetByID retrieves a boss by its UUID.
func (r *BossRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Boss, error) {
	return scanBoss(r.pool.QueryRow(ctx,
		`SELECT `+bossColumns+` FROM bosses WHERE id = $1`, id))
}

// ListByClassroom retrieves bosses for a classroom with pagination, newest first.
func (r *BossRepository) ListByClassroom(ctx context.Context, classroomID, limit, offset int) ([]model.Boss, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bosses WHERE classroom_id = $1`, classroomID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+bossColumns+` FROM bosses
		 WHERE classroom_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, classroomID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bosses []model.Boss
	for rows.Next() {
		b, err := scanBoss(rows)
		if err != nil {
			return nil, 0, err
		}
		bosses = append(bosses, *b)
	}
	return bosses, total, rows.Err()
}

// Create inserts a new boss.
func (r *BossRepository) Create(ctx context.Context, b *model.Boss) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO bosses (classroom_id, name, boss_name, boss_hp, boss_image_url,
		 	battle_mode, xp_reward, gp_reward, participant_bonus, competency_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		b.ClassroomID, b.Name, b.BossName, b.BossHP, b.BossImageURL,
		b.BattleMode, b.XPReward, b.GPReward, b.ParticipantBonus, b.CompetencyID, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// Update rewrites a boss's mutable fields.
func (r *BossRepository) Update(ctx context.Context, b *model.Boss) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bosses
		 SET name = $1, boss_name = $2, boss_hp = $3, boss_image_url = $4,
		     battle_mode = $5, xp_reward = $6, gp_reward = $7, participant_bonus = $8,
		     competency_id = $9, updated_at = NOW()
		 WHERE id = $10`,
		b.Name, b.BossName, b.BossHP, b.BossImageURL, b.BattleMode,
		b.XPReward, b.GPReward, b.ParticipantBonus, b.CompetencyID, b.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus transitions a boss's lifecycle status. expect guards the
// transition: the update applies only when the stored status still matches,
// which keeps concurrent start/finalize requests from racing each other.
func (r *BossRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expect, next model.BossStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bosses SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = $3`,
		next, id, expect,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a boss and, via FK cascade, its questions.
func (r *BossRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bosses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Duplicate copies a boss and its questions into a fresh DRAFT boss inside
// one transaction. Terminal bosses are never reopened; re-fighting means
// duplicating.
func (r *BossRepository) Duplicate(ctx context.Context, id uuid.UUID) (*model.Boss, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	copy, err := scanBoss(tx.QueryRow(ctx,
		`INSERT INTO bosses (classroom_id, name, boss_name, boss_hp, boss_image_url,
		 	battle_mode, xp_reward, gp_reward, participant_bonus, competency_id, status)
		 SELECT classroom_id, name || ' (copy)', boss_name, boss_hp, boss_image_url,
		 	battle_mode, xp_reward, gp_reward, participant_bonus, competency_id, $1
		 FROM bosses WHERE id = $2
		 RETURNING `+bossColumns,
		model.BossStatusDraft, id,
	))
	if err != nil {
		return nil, fmt.Errorf("copy boss: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO battle_questions (boss_id, question_type, prompt, image_url, options,
		 	pairs, correct_index, correct_indices, damage, hp_penalty, time_limit_seconds, order_num)
		 SELECT $1, question_type, prompt, image_url, options,
		 	pairs, correct_index, correct_indices, damage, hp_penalty, time_limit_seconds, order_num
		 FROM battle_questions WHERE boss_id = $2`,
		copy.ID, id,
	); err != nil {
		return nil, fmt.Errorf("copy questions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return copy, nil
}
