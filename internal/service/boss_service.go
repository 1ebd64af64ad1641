package service

import (
	"context"
	"errors"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/classquest/classquest-backend/internal/repository"
	"github.com/classquest/classquest-backend/internal/response"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Domain Errors
var (
	ErrBossNotDraft      = errors.New("boss status is not DRAFT")
	ErrBattleNotFinished = errors.New("battle has not reached a terminal state")
)

// BossService handles boss definition business logic.
type BossService struct {
	bossRepo *repository.BossRepository
	log      zerolog.Logger
}

// NewBossService creates a new BossService.
func NewBossService(bossRepo *repository.BossRepository, log zerolog.Logger) *BossService {
	return &BossService{
		bossRepo: bossRepo,
		log:      log.With().Str("component", "boss_service").Logger(),
	}
}

// GetByID retrieves a boss by its UUID.
func (s *BossService) GetByID(ctx context.Context, id uuid.UUID) (*model.Boss, error) {
	return s.bossRepo.GetByID(ctx, id)
}

// ListByClassroom retrieves a classroom's bosses with pagination.
func (s *BossService) ListByClassroom(ctx context.Context, classroomID, page, perPage int) ([]model.Boss, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	bosses, total, err := s.bossRepo.ListByClassroom(ctx, classroomID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if bosses == nil {
		bosses = []model.Boss{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return bosses, pagination, nil
}

// Create inserts a new boss as DRAFT.
func (s *BossService) Create(ctx context.Context, boss *model.Boss) error {
	boss.Status = model.BossStatusDraft
	if err := s.bossRepo.Create(ctx, boss); err != nil {
		return err
	}
	s.log.Info().Str("boss_id", boss.ID.String()).Str("mode", string(boss.BattleMode)).Msg("Boss created")
	return nil
}

// Update modifies a boss. Only DRAFT bosses are mutable; once a battle has
// started the definition (boss HP included) is frozen.
func (s *BossService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBossRequest) (*model.Boss, error) {
	boss, err := s.bossRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if boss.Status != model.BossStatusDraft {
		return nil, ErrBossNotDraft
	}

	if req.Name != nil {
		boss.Name = *req.Name
	}
	if req.BossName != nil {
		boss.BossName = *req.BossName
	}
	if req.BossHP != nil {
		boss.BossHP = *req.BossHP
	}
	if req.BossImageURL != nil {
		boss.BossImageURL = *req.BossImageURL
	}
	if req.BattleMode != nil {
		boss.BattleMode = model.BattleMode(*req.BattleMode)
	}
	if req.XPReward != nil {
		boss.XPReward = *req.XPReward
	}
	if req.GPReward != nil {
		boss.GPReward = *req.GPReward
	}
	if req.ParticipantBonus != nil {
		boss.ParticipantBonus = *req.ParticipantBonus
	}
	if req.CompetencyID != nil {
		boss.CompetencyID = req.CompetencyID
	}

	if err := s.bossRepo.Update(ctx, boss); err != nil {
		return nil, err
	}
	return boss, nil
}

// Delete removes a DRAFT boss.
func (s *BossService) Delete(ctx context.Context, id uuid.UUID) error {
	boss, err := s.bossRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if boss.Status != model.BossStatusDraft {
		return ErrBossNotDraft
	}
	return s.bossRepo.Delete(ctx, id)
}

// Duplicate copies any boss (terminal ones included) into a fresh DRAFT with
// its questions. This is the only way to re-fight a finished boss.
func (s *BossService) Duplicate(ctx context.Context, id uuid.UUID) (*model.Boss, error) {
	copy, err := s.bossRepo.Duplicate(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("source_boss_id", id.String()).
		Str("boss_id", copy.ID.String()).
		Msg("Boss duplicated")
	return copy, nil
}
