package repository

import (
	"context"
	"time"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BattleResultRepository handles the immutable battle result rows.
type BattleResultRepository struct {
	pool *pgxpool.Pool
}

// NewBattleResultRepository creates a new BattleResultRepository.
func NewBattleResultRepository(pool *pgxpool.Pool) *BattleResultRepository {
	return &BattleResultRepository{pool: pool}
}

// InsertBatch writes all result rows of one finished battle with a single
// UNNEST insert. ON CONFLICT DO NOTHING makes a retried finalization a no-op:
// rows are written at most once per (boss, student).
func (r *BattleResultRepository) InsertBatch(ctx context.Context, results []model.BattleResult) error {
	if len(results) == 0 {
		return nil
	}

	n := len(results)
	bossIDs := make([]uuid.UUID, n)
	studentIDs := make([]int, n)
	damages := make([]int, n)
	xps := make([]int, n)
	gps := make([]int, n)
	firstDamageAts := make([]*time.Time, n)
	createdAts := make([]time.Time, n)

	for i, res := range results {
		bossIDs[i] = res.BossID
		studentIDs[i] = res.StudentID
		damages[i] = res.DamageDealt
		xps[i] = res.XPEarned
		gps[i] = res.GPEarned
		firstDamageAts[i] = res.FirstDamageAt
		createdAts[i] = res.CreatedAt
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO battle_results (boss_id, student_id, damage_dealt, xp_earned, gp_earned, first_damage_at, created_at)
		 SELECT u.boss_id, u.student_id, u.damage_dealt, u.xp_earned, u.gp_earned, u.first_damage_at, u.created_at
		 FROM UNNEST(
		 	$1::uuid[],
		 	$2::int[],
		 	$3::int[],
		 	$4::int[],
		 	$5::int[],
		 	$6::timestamptz[],
		 	$7::timestamptz[]
		 ) AS u (boss_id, student_id, damage_dealt, xp_earned, gp_earned, first_damage_at, created_at)
		 ON CONFLICT (boss_id, student_id) DO NOTHING`,
		bossIDs, studentIDs, damages, xps, gps, firstDamageAts, createdAts,
	)
	return err
}

// ListByBoss retrieves all result rows for a boss, damage descending with the
// earliest first hit breaking ties (rows without one sort last).
func (r *BattleResultRepository) ListByBoss(ctx context.Context, bossID uuid.UUID) ([]model.BattleResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT boss_id, student_id, damage_dealt, xp_earned, gp_earned, first_damage_at, created_at
		 FROM battle_results
		 WHERE boss_id = $1
		 ORDER BY damage_dealt DESC, first_damage_at ASC NULLS LAST, student_id ASC`, bossID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.BattleResult
	for rows.Next() {
		var res model.BattleResult
		if err := rows.Scan(&res.BossID, &res.StudentID, &res.DamageDealt, &res.XPEarned, &res.GPEarned, &res.FirstDamageAt, &res.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
