package model

import (
	"time"

	"github.com/google/uuid"
)

// BossStatus enumerates the lifecycle states of a boss definition.
type BossStatus string

const (
	BossStatusDraft     BossStatus = "DRAFT"
	BossStatusActive    BossStatus = "ACTIVE"
	BossStatusVictory   BossStatus = "VICTORY"
	BossStatusDefeat    BossStatus = "DEFEAT"
	BossStatusCompleted BossStatus = "COMPLETED"
)

// Terminal reports whether a battle in this status can never be reopened.
func (s BossStatus) Terminal() bool {
	return s == BossStatusVictory || s == BossStatusDefeat || s == BossStatusCompleted
}

// BattleMode enumerates how a battle is fought.
type BattleMode string

const (
	// BattleModeClassic lets any eligible participant answer any question.
	BattleModeClassic BattleMode = "CLASSIC"
	// BattleModeBVJ (Boss vs Jugador) rotates turns through single students.
	BattleModeBVJ BattleMode = "BVJ"
)

// Boss is the static configuration of a battle: the opponent, its HP pool
// and the rewards distributed on victory. Mutable only while status = DRAFT.
type Boss struct {
	ID               uuid.UUID  `json:"id"`
	ClassroomID      int        `json:"classroom_id"`
	Name             string     `json:"name"`
	BossName         string     `json:"boss_name"`
	BossHP           int        `json:"boss_hp"`
	BossImageURL     string     `json:"boss_image_url,omitempty"`
	BattleMode       BattleMode `json:"battle_mode"`
	XPReward         int        `json:"xp_reward"`
	GPReward         int        `json:"gp_reward"`
	ParticipantBonus int        `json:"participant_bonus"`
	CompetencyID     *int       `json:"competency_id,omitempty"`
	Status           BossStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateBossRequest is the payload for creating a new draft boss.
type CreateBossRequest struct {
	ClassroomID      int    `json:"classroom_id" binding:"required,min=1"`
	Name             string `json:"name" binding:"required,min=1,max=255"`
	BossName         string `json:"boss_name" binding:"required,min=1,max=255"`
	BossHP           int    `json:"boss_hp" binding:"required,min=1"`
	BossImageURL     string `json:"boss_image_url" binding:"omitempty,max=2048"`
	BattleMode       string `json:"battle_mode" binding:"required,oneof=CLASSIC BVJ"`
	XPReward         int    `json:"xp_reward" binding:"min=0"`
	GPReward         int    `json:"gp_reward" binding:"min=0"`
	ParticipantBonus int    `json:"participant_bonus" binding:"min=0"`
	CompetencyID     *int   `json:"competency_id" binding:"omitempty,min=1"`
}

// UpdateBossRequest is the payload for updating a draft boss.
type UpdateBossRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=255"`
	BossName         *string `json:"boss_name" binding:"omitempty,min=1,max=255"`
	BossHP           *int    `json:"boss_hp" binding:"omitempty,min=1"`
	BossImageURL     *string `json:"boss_image_url" binding:"omitempty,max=2048"`
	BattleMode       *string `json:"battle_mode" binding:"omitempty,oneof=CLASSIC BVJ"`
	XPReward         *int    `json:"xp_reward" binding:"omitempty,min=0"`
	GPReward         *int    `json:"gp_reward" binding:"omitempty,min=0"`
	ParticipantBonus *int    `json:"participant_bonus" binding:"omitempty,min=0"`
	CompetencyID     *int    `json:"competency_id" binding:"omitempty,min=1"`
}

// StartBattleRequest is the payload for starting a battle against a boss.
type StartBattleRequest struct {
	StudentIDs []int `json:"student_ids" binding:"required,min=1,dive,min=1"`
}
