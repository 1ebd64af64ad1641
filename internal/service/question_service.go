package service

import (
	"context"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/classquest/classquest-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QuestionService handles battle question business logic: authoring-time
// validation, DRAFT gating and question bank import.
type QuestionService struct {
	questionRepo *repository.BattleQuestionRepository
	bossRepo     *repository.BossRepository
	bankRepo     *repository.BankQuestionRepository
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(
	questionRepo *repository.BattleQuestionRepository,
	bossRepo *repository.BossRepository,
	bankRepo *repository.BankQuestionRepository,
	log zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		bossRepo:     bossRepo,
		bankRepo:     bankRepo,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// ListByBoss retrieves all questions attached to a boss.
func (s *QuestionService) ListByBoss(ctx context.Context, bossID uuid.UUID) ([]model.BattleQuestion, error) {
	return s.questionRepo.ListByBoss(ctx, bossID)
}

// Add validates and attaches a question to a DRAFT boss. Malformed questions
// are rejected here so they never reach a running session.
func (s *QuestionService) Add(ctx context.Context, q *model.BattleQuestion) error {
	boss, err := s.bossRepo.GetByID(ctx, q.BossID)
	if err != nil {
		return err
	}
	if boss.Status != model.BossStatusDraft {
		return ErrBossNotDraft
	}
	if err := q.Validate(); err != nil {
		return err
	}
	return s.questionRepo.Create(ctx, q)
}

// Update replaces a question's content. The owning boss must still be DRAFT.
func (s *QuestionService) Update(ctx context.Context, q *model.BattleQuestion) error {
	existing, err := s.questionRepo.GetByID(ctx, q.ID)
	if err != nil {
		return err
	}
	boss, err := s.bossRepo.GetByID(ctx, existing.BossID)
	if err != nil {
		return err
	}
	if boss.Status != model.BossStatusDraft {
		return ErrBossNotDraft
	}
	q.BossID = existing.BossID
	if err := q.Validate(); err != nil {
		return err
	}
	return s.questionRepo.Update(ctx, q)
}

// Delete removes a question from a DRAFT boss.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	boss, err := s.bossRepo.GetByID(ctx, existing.BossID)
	if err != nil {
		return err
	}
	if boss.Status != model.BossStatusDraft {
		return ErrBossNotDraft
	}
	return s.questionRepo.Delete(ctx, id)
}

// ImportFromBank copies bank questions onto a DRAFT boss. Import is
// best-effort per item: a bank question that cannot be mapped to a valid
// battle question is skipped and reported, never aborting the batch.
func (s *QuestionService) ImportFromBank(ctx context.Context, bossID uuid.UUID, bankQuestionIDs []uuid.UUID) (*model.ImportSummary, error) {
	boss, err := s.bossRepo.GetByID(ctx, bossID)
	if err != nil {
		return nil, err
	}
	if boss.Status != model.BossStatusDraft {
		return nil, ErrBossNotDraft
	}

	existing, err := s.questionRepo.ListByBoss(ctx, bossID)
	if err != nil {
		return nil, err
	}
	nextOrder := len(existing)

	bankQuestions, err := s.bankRepo.ListByIDs(ctx, bankQuestionIDs)
	if err != nil {
		return nil, err
	}
	found := make(map[uuid.UUID]model.BankQuestion, len(bankQuestions))
	for _, bq := range bankQuestions {
		found[bq.ID] = bq
	}

	summary := &model.ImportSummary{Imported: []model.BattleQuestion{}, Skipped: []model.ImportSkip{}}
	var drafts []model.BattleQuestion

	// Preserve the caller's requested order for both drafts and skip reports.
	for _, id := range bankQuestionIDs {
		bq, ok := found[id]
		if !ok {
			summary.Skipped = append(summary.Skipped, model.ImportSkip{
				BankQuestionID: id,
				Reason:         "bank question not found",
			})
			continue
		}
		draft, err := BankToBattleQuestion(bq, bossID, nextOrder)
		if err != nil {
			summary.Skipped = append(summary.Skipped, model.ImportSkip{
				BankQuestionID: id,
				Reason:         err.Error(),
			})
			continue
		}
		drafts = append(drafts, draft)
		nextOrder++
	}

	if err := s.questionRepo.CreateBatch(ctx, drafts); err != nil {
		return nil, err
	}
	summary.Imported = drafts

	s.log.Info().
		Str("boss_id", bossID.String()).
		Int("imported", len(summary.Imported)).
		Int("skipped", len(summary.Skipped)).
		Msg("Bank import finished")
	return summary, nil
}
