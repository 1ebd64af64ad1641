package service

import (
	"context"

	"github.com/classquest/classquest-backend/internal/battle"
	"github.com/classquest/classquest-backend/internal/model"
	"github.com/classquest/classquest-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BattleResults is the teacher-facing leaderboard for one finished battle.
type BattleResults struct {
	Boss    *model.Boss          `json:"boss"`
	Ranking []model.BattleResult `json:"ranking"`
	Totals  model.BattleTotals   `json:"totals"`
}

// ResultsService serves aggregated battle results from the immutable
// result rows.
type ResultsService struct {
	bossRepo   *repository.BossRepository
	resultRepo *repository.BattleResultRepository
	log        zerolog.Logger
}

// NewResultsService creates a new ResultsService.
func NewResultsService(
	bossRepo *repository.BossRepository,
	resultRepo *repository.BattleResultRepository,
	log zerolog.Logger,
) *ResultsService {
	return &ResultsService{
		bossRepo:   bossRepo,
		resultRepo: resultRepo,
		log:        log.With().Str("component", "results_service").Logger(),
	}
}

// GetByBoss returns the ranked results and totals for a terminal boss.
// Battles still DRAFT or ACTIVE have no results to show.
func (s *ResultsService) GetByBoss(ctx context.Context, bossID uuid.UUID) (*BattleResults, error) {
	boss, err := s.bossRepo.GetByID(ctx, bossID)
	if err != nil {
		return nil, err
	}
	if !boss.Status.Terminal() {
		return nil, ErrBattleNotFinished
	}

	results, err := s.resultRepo.ListByBoss(ctx, bossID)
	if err != nil {
		return nil, err
	}
	ranking := battle.Rank(results)
	if ranking == nil {
		ranking = []model.BattleResult{}
	}

	return &BattleResults{
		Boss:    boss,
		Ranking: ranking,
		Totals:  battle.Totals(ranking),
	}, nil
}
