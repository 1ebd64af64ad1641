package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/classquest/classquest-backend/internal/battle"
	"github.com/classquest/classquest-backend/internal/config"
	"github.com/classquest/classquest-backend/internal/database"
	"github.com/classquest/classquest-backend/internal/handler"
	"github.com/classquest/classquest-backend/internal/logger"
	"github.com/classquest/classquest-backend/internal/repository"
	"github.com/classquest/classquest-backend/internal/router"
	"github.com/classquest/classquest-backend/internal/service"
	"github.com/classquest/classquest-backend/internal/validator"
	"github.com/classquest/classquest-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting ClassQuest Battle Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	bossRepo := repository.NewBossRepository(pool)
	questionRepo := repository.NewBattleQuestionRepository(pool)
	resultRepo := repository.NewBattleResultRepository(pool)
	rosterRepo := repository.NewRosterRepository(pool)
	bankRepo := repository.NewBankQuestionRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	sessionStore := battle.NewStore()
	bossService := service.NewBossService(bossRepo, log)
	questionService := service.NewQuestionService(questionRepo, bossRepo, bankRepo, log)
	battleService := service.NewBattleService(sessionStore, bossRepo, questionRepo, rosterRepo, resultRepo, rdb, cfg, log)
	resultsService := service.NewResultsService(bossRepo, resultRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Boss:     handler.NewBossHandler(bossService, resultsService),
		Question: handler.NewQuestionHandler(questionService),
		Battle:   handler.NewBattleHandler(battleService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	rewardWorker := worker.NewRewardWorker(resultRepo, rosterRepo, rdb, log)
	go rewardWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the reward worker and let the payout queue drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
