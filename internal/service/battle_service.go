package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/classquest/classquest-backend/internal/battle"
	"github.com/classquest/classquest-backend/internal/config"
	"github.com/classquest/classquest-backend/internal/model"
	"github.com/classquest/classquest-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrBattleInProgress means the boss already has an ACTIVE session.
var ErrBattleInProgress = errors.New("boss already has a battle in progress")

// StartResult is what the start endpoint returns: the initial snapshot plus
// the authoring advisory. AdvisoryUndefeatable warns the teacher that the
// question set cannot deal enough total damage to defeat the boss; it never
// blocks the start — an un-defeatable boss is a legitimate design.
type StartResult struct {
	Snapshot             battle.Snapshot `json:"session"`
	AdvisoryUndefeatable bool            `json:"advisory_undefeatable"`
}

// BattleService drives battle sessions: start, answer submission and
// terminalization. Sessions live in the in-process store; Redis carries a
// read-only snapshot per session and the reward payout queue.
type BattleService struct {
	store        *battle.Store
	bossRepo     *repository.BossRepository
	questionRepo *repository.BattleQuestionRepository
	rosterRepo   *repository.RosterRepository
	resultRepo   *repository.BattleResultRepository
	rdb          *redis.Client
	snapshotTTL  time.Duration
	log          zerolog.Logger
}

// NewBattleService creates a new BattleService.
func NewBattleService(
	store *battle.Store,
	bossRepo *repository.BossRepository,
	questionRepo *repository.BattleQuestionRepository,
	rosterRepo *repository.RosterRepository,
	resultRepo *repository.BattleResultRepository,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *BattleService {
	return &BattleService{
		store:        store,
		bossRepo:     bossRepo,
		questionRepo: questionRepo,
		rosterRepo:   rosterRepo,
		resultRepo:   resultRepo,
		rdb:          rdb,
		snapshotTTL:  time.Duration(cfg.SessionSnapshotTTLSeconds) * time.Second,
		log:          log.With().Str("component", "battle_service").Logger(),
	}
}

// Start instantiates a battle session for a DRAFT boss and moves the boss to
// ACTIVE. The roster is fetched once from the student collaborator here and
// never re-derived mid-session.
func (s *BattleService) Start(ctx context.Context, bossID uuid.UUID, studentIDs []int) (*StartResult, error) {
	boss, err := s.bossRepo.GetByID(ctx, bossID)
	if err != nil {
		return nil, err
	}
	switch boss.Status {
	case model.BossStatusDraft:
		// ok
	case model.BossStatusActive:
		return nil, ErrBattleInProgress
	default:
		return nil, ErrBossNotDraft
	}

	questions, err := s.questionRepo.ListByBoss(ctx, bossID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	roster, err := s.rosterRepo.GetRoster(ctx, boss.ClassroomID, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("get roster: %w", err)
	}

	sess, err := battle.NewSession(battle.Config{
		Boss:      boss,
		Questions: questions,
		Roster:    roster,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(sess); err != nil {
		if errors.Is(err, battle.ErrSessionExists) {
			return nil, ErrBattleInProgress
		}
		return nil, err
	}

	if err := s.bossRepo.UpdateStatus(ctx, bossID, model.BossStatusDraft, model.BossStatusActive); err != nil {
		s.store.Evict(sess.ID())
		if errors.Is(err, repository.ErrNotFound) {
			// Lost the race against a concurrent start.
			return nil, ErrBattleInProgress
		}
		return nil, fmt.Errorf("activate boss: %w", err)
	}

	totalDamage := 0
	for _, q := range questions {
		totalDamage += q.Damage
	}

	snap := sess.Snapshot()
	s.cacheSnapshot(ctx, snap, 0)
	s.rdb.Set(ctx, config.CacheKey.BossActiveSessionKey(bossID.String()), sess.ID().String(), 0)

	s.log.Info().
		Str("boss_id", bossID.String()).
		Str("session_id", sess.ID().String()).
		Str("mode", string(boss.BattleMode)).
		Int("participants", len(roster)).
		Msg("Battle started")

	return &StartResult{
		Snapshot:             snap,
		AdvisoryUndefeatable: totalDamage < boss.BossHP,
	}, nil
}

// SubmitAnswer routes one submission into the session's atomic submit and
// runs terminal side effects when this call ends the battle. Engine errors
// (wrong turn, ineligible participant, already finalized) pass through to
// the handler with the current snapshot attached.
func (s *BattleService) SubmitAnswer(ctx context.Context, sessionID uuid.UUID, studentID int, questionID uuid.UUID, answer battle.Answer) (battle.Outcome, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return battle.Outcome{}, err
	}

	out, err := sess.Submit(studentID, questionID, answer)
	if err != nil {
		return out, err
	}

	if out.HPLost > 0 {
		// Battle penalties bite the student's platform HP as well. Best
		// effort: a failed write costs a penalty, never the battle state.
		if err := s.rosterRepo.DeductHP(ctx, studentID, out.HPLost); err != nil {
			s.log.Error().Err(err).Int("student_id", studentID).Msg("HP deduction failed")
		}
	}

	if out.Terminal {
		s.finalize(ctx, sess.BossID(), out)
		s.cacheSnapshot(ctx, out.Snapshot, s.snapshotTTL)
	} else {
		s.cacheSnapshot(ctx, out.Snapshot, 0)
	}

	return out, nil
}

// GetSession returns the live snapshot for a session id.
func (s *BattleService) GetSession(sessionID uuid.UUID) (battle.Snapshot, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return battle.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// finalize persists the terminal outcome. The session's finalized flag
// guarantees this runs once per battle; every write here is idempotent so a
// crashed finalize can be replayed by the reward worker from the queued job.
func (s *BattleService) finalize(ctx context.Context, bossID uuid.UUID, out battle.Outcome) {
	status := model.BossStatusDefeat
	if out.Victory {
		status = model.BossStatusVictory
	}

	if err := s.resultRepo.InsertBatch(ctx, out.Results); err != nil {
		// The queued job below re-inserts with ON CONFLICT DO NOTHING.
		s.log.Error().Err(err).Str("boss_id", bossID.String()).Msg("Result insert failed, deferring to worker")
	}

	if err := s.bossRepo.UpdateStatus(ctx, bossID, model.BossStatusActive, status); err != nil {
		s.log.Error().Err(err).Str("boss_id", bossID.String()).Msg("Boss status update failed")
	}

	job := model.FinalizeJob{
		BossID:  bossID,
		Victory: out.Victory,
		Results: out.Results,
		Payouts: out.Payouts,
	}
	raw, err := json.Marshal(job)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal finalize job failed")
	} else if err := s.rdb.RPush(ctx, config.WorkerKey.RewardPayoutQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Str("boss_id", bossID.String()).Msg("Enqueue finalize job failed")
	}

	s.store.Release(bossID)
	s.rdb.Del(ctx, config.CacheKey.BossActiveSessionKey(bossID.String()))

	s.log.Info().
		Str("boss_id", bossID.String()).
		Str("outcome", string(status)).
		Int("participants", len(out.Results)).
		Msg("Battle finalized")
}

// cacheSnapshot mirrors the session state into Redis for monitor reads.
// Never used for grading; failures only cost observability.
func (s *BattleService) cacheSnapshot(ctx context.Context, snap battle.Snapshot, ttl time.Duration) {
	raw, err := json.Marshal(snap)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal snapshot failed")
		return
	}
	key := config.CacheKey.SessionSnapshotKey(snap.SessionID.String())
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("session_id", snap.SessionID.String()).Msg("Snapshot cache write failed")
	}
}
