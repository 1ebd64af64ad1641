package repository

import (
	"context"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RosterRepository is the engine's view of the surrounding platform's
// student roster and economy. The engine only ever reads {student_id, hp}
// and credits XP/GP deltas; everything else about students belongs to the
// host application.
type RosterRepository struct {
	pool *pgxpool.Pool
}

// NewRosterRepository creates a new RosterRepository.
func NewRosterRepository(pool *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{pool: pool}
}

// GetRoster fetches the current HP of the requested students within a
// classroom. Students outside the classroom are silently absent from the
// result; the caller decides whether that is an error.
func (r *RosterRepository) GetRoster(ctx context.Context, classroomID int, studentIDs []int) ([]model.Participant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, current_hp FROM students
		 WHERE classroom_id = $1 AND id = ANY($2)
		 ORDER BY id`, classroomID, studentIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.StudentID, &p.CurrentHP); err != nil {
			return nil, err
		}
		roster = append(roster, p)
	}
	return roster, rows.Err()
}

// DeductHP applies an HP penalty to a student, clamped at zero.
func (r *RosterRepository) DeductHP(ctx context.Context, studentID, amount int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET current_hp = GREATEST(0, current_hp - $1) WHERE id = $2`,
		amount, studentID,
	)
	return err
}

// CreditRewards applies XP/GP deltas to a batch of students with one UNNEST
// update. This is the economy-application side of reward distribution; the
// worker delivers each payout at most once.
func (r *RosterRepository) CreditRewards(ctx context.Context, payouts []model.RewardPayout) error {
	if len(payouts) == 0 {
		return nil
	}

	n := len(payouts)
	studentIDs := make([]int, n)
	xps := make([]int, n)
	gps := make([]int, n)
	for i, p := range payouts {
		studentIDs[i] = p.StudentID
		xps[i] = p.XPDelta
		gps[i] = p.GPDelta
	}

	_, err := r.pool.Exec(ctx,
		`UPDATE students AS s
		 SET xp = s.xp + t.xp_delta,
		     gp = s.gp + t.gp_delta
		 FROM (
		 	SELECT u.student_id, u.xp_delta, u.gp_delta
		 	FROM UNNEST($1::int[], $2::int[], $3::int[]) AS u (student_id, xp_delta, gp_delta)
		 ) AS t
		 WHERE s.id = t.student_id`,
		studentIDs, xps, gps,
	)
	return err
}
