package router

import (
	"net/http"
	"time"

	"github.com/classquest/classquest-backend/internal/config"
	"github.com/classquest/classquest-backend/internal/handler"
	"github.com/classquest/classquest-backend/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Boss     *handler.BossHandler
	Question *handler.QuestionHandler
	Battle   *handler.BattleHandler
}

// SetupRouter configures all Gin route groups. Authentication and tenancy
// enforcement sit in the platform gateway in front of this service.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	// ─── Boss authoring ────────────────────────────────────────────────
	bosses := api.Group("/bosses")
	{
		bosses.GET("", handlers.Boss.ListBosses)
		bosses.POST("", handlers.Boss.CreateBoss)
		bosses.GET("/:boss_id", handlers.Boss.GetBoss)
		bosses.PATCH("/:boss_id", handlers.Boss.UpdateBoss)
		bosses.DELETE("/:boss_id", handlers.Boss.DeleteBoss)
		bosses.POST("/:boss_id/duplicate", handlers.Boss.DuplicateBoss)

		// Question set
		bosses.GET("/:boss_id/questions", handlers.Question.ListQuestions)
		bosses.POST("/:boss_id/questions", handlers.Question.AddQuestion)
		bosses.POST("/:boss_id/questions/import", handlers.Question.ImportQuestions)

		// Battle lifecycle and reporting
		bosses.POST("/:boss_id/start", handlers.Battle.StartBattle)
		bosses.GET("/:boss_id/results", handlers.Boss.GetBattleResults)
	}

	// ─── Question editing (by question id) ─────────────────────────────
	questions := api.Group("/questions")
	{
		questions.PATCH("/:question_id", handlers.Question.UpdateQuestion)
		questions.DELETE("/:question_id", handlers.Question.DeleteQuestion)
	}

	// ─── Live battles ──────────────────────────────────────────────────
	battles := api.Group("/battles")
	{
		battles.GET("/:session_id", handlers.Battle.GetSession)
		battles.POST("/:session_id/answer", handlers.Battle.SubmitAnswer)
	}

	return router
}
