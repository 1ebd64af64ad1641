package model

import (
	"time"

	"github.com/google/uuid"
)

// BattleResult is one participant's outcome of a completed battle. Rows are
// written exactly once on terminalization and never updated afterwards; they
// are the authoritative source for leaderboards and historical reporting.
type BattleResult struct {
	BossID      uuid.UUID `json:"boss_id"`
	StudentID   int       `json:"student_id"`
	DamageDealt int       `json:"damage_dealt"`
	XPEarned    int       `json:"xp_earned"`
	GPEarned    int       `json:"gp_earned"`
	// FirstDamageAt is when the student's first hit landed; nil if they never
	// dealt damage. Persisted so historical rankings keep the tie-break.
	FirstDamageAt *time.Time `json:"first_damage_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// RewardPayout is the XP/GP delta owed to a single student after a victory.
// Delivered at-most-once to the economy side; the credit update is idempotent
// from the engine's point of view.
type RewardPayout struct {
	StudentID int `json:"student_id"`
	XPDelta   int `json:"xp_delta"`
	GPDelta   int `json:"gp_delta"`
}

// FinalizeJob is the queue payload carrying a finished battle's persistence
// work to the reward worker: idempotent result re-insert plus the XP/GP
// credit. One job per battle, delivered at most once.
type FinalizeJob struct {
	BossID  uuid.UUID      `json:"boss_id"`
	Victory bool           `json:"victory"`
	Results []BattleResult `json:"results"`
	Payouts []RewardPayout `json:"payouts"`
}

// BattleTotals aggregates a finished battle for the teacher view.
type BattleTotals struct {
	TotalDamage int `json:"total_damage"`
	TotalXP     int `json:"total_xp"`
	TotalGP     int `json:"total_gp"`
}
