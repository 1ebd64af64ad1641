package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/classquest/classquest-backend/internal/config"
	"github.com/classquest/classquest-backend/internal/model"
	"github.com/classquest/classquest-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	RewardBatchSize    = 20
	RewardBatchTimeout = 2 * time.Second
	RewardPollTimeout  = 1 * time.Second
)

// RewardWorker drains the finalize queue: for every finished battle it
// re-inserts the result rows (idempotent, covers a failed synchronous
// insert) and credits the XP/GP payouts to the students' economy.
type RewardWorker struct {
	resultRepo *repository.BattleResultRepository
	rosterRepo *repository.RosterRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

func NewRewardWorker(
	resultRepo *repository.BattleResultRepository,
	rosterRepo *repository.RosterRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *RewardWorker {
	return &RewardWorker{
		resultRepo: resultRepo,
		rosterRepo: rosterRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "reward_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *RewardWorker) Start(ctx context.Context) {
	w.log.Info().Msg("RewardWorker started")

	batch := make([]*model.FinalizeJob, 0, RewardBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= RewardBatchSize || time.Since(lastFlush) >= RewardBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, RewardPollTimeout, config.WorkerKey.RewardPayoutQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var job model.FinalizeJob
			if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &job)
		}
	}
}

// ----------------------------------------------------------------
// Per-battle persistence with requeue fallback
// ----------------------------------------------------------------

func (w *RewardWorker) flushSafe(ctx context.Context, batch []*model.FinalizeJob) {
	for _, job := range batch {
		// Safety net for a finalize whose synchronous insert failed. The
		// UNNEST insert is ON CONFLICT DO NOTHING, so replaying is free and
		// the job can be requeued: the credit has not run yet.
		if err := w.resultRepo.InsertBatch(ctx, job.Results); err != nil {
			w.log.Error().
				Err(err).
				Str("boss_id", job.BossID.String()).
				Msg("Result insert failed — requeueing job")
			raw, _ := json.Marshal(job)
			w.rdb.RPush(ctx, config.WorkerKey.RewardPayoutQueue, raw)
			continue
		}

		// The credit is a delta, delivered at most once: a failure here is
		// logged for manual repair, never requeued, so no student can be
		// paid twice.
		if err := w.rosterRepo.CreditRewards(ctx, job.Payouts); err != nil {
			w.log.Error().
				Err(err).
				Str("boss_id", job.BossID.String()).
				Int("payouts", len(job.Payouts)).
				Msg("Reward credit failed — dropped, manual repair required")
			continue
		}

		w.log.Debug().
			Str("boss_id", job.BossID.String()).
			Bool("victory", job.Victory).
			Int("payouts", len(job.Payouts)).
			Msg("Rewards credited")
	}
}
