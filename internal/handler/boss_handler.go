package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/classquest/classquest-backend/internal/model"
	"github.com/classquest/classquest-backend/internal/repository"
	"github.com/classquest/classquest-backend/internal/response"
	"github.com/classquest/classquest-backend/internal/service"
	"github.com/classquest/classquest-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BossHandler handles boss definition endpoints.
type BossHandler struct {
	bossService    *service.BossService
	resultsService *service.ResultsService
}

// NewBossHandler creates a new BossHandler.
func NewBossHandler(bossService *service.BossService, resultsService *service.ResultsService) *BossHandler {
	return &BossHandler{
		bossService:    bossService,
		resultsService: resultsService,
	}
}

// ListBosses godoc
// GET /api/v1/bosses?classroom_id=&page=&per_page=
func (h *BossHandler) ListBosses(c *gin.Context) {
	classroomID, err := strconv.Atoi(c.Query("classroom_id"))
	if err != nil || classroomID < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	bosses, pagination, err := h.bossService.ListByClassroom(c.Request.Context(), classroomID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"bosses": bosses}, pagination)
}

// CreateBoss godoc
// POST /api/v1/bosses
// Creates a new draft boss.
func (h *BossHandler) CreateBoss(c *gin.Context) {
	var req model.CreateBossRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	boss := &model.Boss{
		ClassroomID:      req.ClassroomID,
		Name:             req.Name,
		BossName:         req.BossName,
		BossHP:           req.BossHP,
		BossImageURL:     req.BossImageURL,
		BattleMode:       model.BattleMode(req.BattleMode),
		XPReward:         req.XPReward,
		GPReward:         req.GPReward,
		ParticipantBonus: req.ParticipantBonus,
		CompetencyID:     req.CompetencyID,
	}

	if err := h.bossService.Create(c.Request.Context(), boss); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"boss": boss})
}

// GetBoss godoc
// GET /api/v1/bosses/:boss_id
func (h *BossHandler) GetBoss(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	boss, err := h.bossService.GetByID(c.Request.Context(), bossID)
	if err != nil {
		failBossError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"boss": boss})
}

// UpdateBoss godoc
// PATCH /api/v1/bosses/:boss_id
// Updates a draft boss.
func (h *BossHandler) UpdateBoss(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateBossRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	boss, err := h.bossService.Update(c.Request.Context(), bossID, &req)
	if err != nil {
		failBossError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"boss": boss})
}

// DeleteBoss godoc
// DELETE /api/v1/bosses/:boss_id
// Deletes a draft boss and its questions.
func (h *BossHandler) DeleteBoss(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.bossService.Delete(c.Request.Context(), bossID); err != nil {
		failBossError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "boss deleted"})
}

// DuplicateBoss godoc
// POST /api/v1/bosses/:boss_id/duplicate
// Copies a boss (questions included) into a fresh draft. The only way to
// re-fight a finished boss.
func (h *BossHandler) DuplicateBoss(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	boss, err := h.bossService.Duplicate(c.Request.Context(), bossID)
	if err != nil {
		failBossError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"boss": boss})
}

// GetBattleResults godoc
// GET /api/v1/bosses/:boss_id/results
// Returns the ranked leaderboard and totals once the battle is terminal.
func (h *BossHandler) GetBattleResults(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	results, err := h.resultsService.GetByBoss(c.Request.Context(), bossID)
	if err != nil {
		failBossError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// failBossError maps boss domain errors onto HTTP responses.
func failBossError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrBossNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrBossNotDraft)
	case errors.Is(err, service.ErrBattleNotFinished):
		response.Fail(c, http.StatusConflict, response.ErrBattleNotFinished)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
