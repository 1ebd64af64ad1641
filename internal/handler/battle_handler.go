package handler

import (
	"errors"
	"net/http"

	"github.com/classquest/classquest-backend/internal/battle"
	"github.com/classquest/classquest-backend/internal/model"
	"github.com/classquest/classquest-backend/internal/repository"
	"github.com/classquest/classquest-backend/internal/response"
	"github.com/classquest/classquest-backend/internal/service"
	"github.com/classquest/classquest-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmitAnswerRequest is one student's answer to one battle question. Exactly
// one of the payload fields is meaningful, picked by the question's type.
type SubmitAnswerRequest struct {
	StudentID  int               `json:"student_id" binding:"required,min=1"`
	QuestionID uuid.UUID         `json:"question_id" binding:"required"`
	Index      *int              `json:"index,omitempty"`
	Indices    []int             `json:"indices,omitempty"`
	Matches    map[string]string `json:"matches,omitempty"`
}

// BattleHandler handles live battle endpoints.
type BattleHandler struct {
	battleService *service.BattleService
}

// NewBattleHandler creates a new BattleHandler.
func NewBattleHandler(battleService *service.BattleService) *BattleHandler {
	return &BattleHandler{battleService: battleService}
}

// StartBattle godoc
// POST /api/v1/bosses/:boss_id/start
// Moves a draft boss into an active battle session with the given roster.
func (h *BattleHandler) StartBattle(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.StartBattleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.battleService.Start(c.Request.Context(), bossID, req.StudentIDs)
	if err != nil {
		failBattleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetSession godoc
// GET /api/v1/battles/:session_id
// Live snapshot of a running session, for monitor views.
func (h *BattleHandler) GetSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	snap, err := h.battleService.GetSession(sessionID)
	if err != nil {
		failBattleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": snap})
}

// SubmitAnswer godoc
// POST /api/v1/battles/:session_id/answer
// Grades one answer inside the session's atomic submit. A submission that
// arrives after the battle already ended is answered with the final snapshot
// rather than an error: the client lost a race, not the plot.
func (h *BattleHandler) SubmitAnswer(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answer := battle.Answer{
		Index:   req.Index,
		Indices: req.Indices,
		Matches: req.Matches,
	}

	out, err := h.battleService.SubmitAnswer(c.Request.Context(), sessionID, req.StudentID, req.QuestionID, answer)
	if err != nil {
		if errors.Is(err, battle.ErrAlreadyFinalized) {
			response.Success(c, http.StatusOK, gin.H{
				"already_finalized": true,
				"session":           out.Snapshot,
			})
			return
		}
		failBattleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"correct":           out.Correct,
		"damage_dealt":      out.DamageDealt,
		"hp_lost":           out.HPLost,
		"boss_hp_remaining": out.BossHPRemaining,
		"terminal":          out.Terminal,
		"victory":           out.Victory,
		"session":           out.Snapshot,
	})
}

// failBattleError maps battle engine errors onto HTTP responses.
func failBattleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, battle.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, battle.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrBattleInProgress):
		response.Fail(c, http.StatusConflict, response.ErrBattleInProgress)
	case errors.Is(err, service.ErrBossNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrBossNotDraft)
	case errors.Is(err, battle.ErrNotYourTurn):
		response.Fail(c, http.StatusConflict, response.ErrNotYourTurn)
	case errors.Is(err, battle.ErrQuestionAlreadyAnswered):
		response.Fail(c, http.StatusConflict, response.ErrQuestionAlreadyAnswered)
	case errors.Is(err, battle.ErrIneligibleParticipant):
		response.Fail(c, http.StatusForbidden, response.ErrIneligibleParticipant)
	case errors.Is(err, battle.ErrNoQuestions):
		response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
	case errors.Is(err, battle.ErrNoEligibleParticipants):
		response.Fail(c, http.StatusBadRequest, response.ErrNoEligibleParticipants)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
