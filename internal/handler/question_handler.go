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

// QuestionHandler handles battle question endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListQuestions godoc
// GET /api/v1/bosses/:boss_id/questions
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	questions, err := h.questionService.ListByBoss(c.Request.Context(), bossID)
	if err != nil {
		failQuestionError(c, err)
		return
	}
	if questions == nil {
		questions = []model.BattleQuestion{}
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// AddQuestion godoc
// POST /api/v1/bosses/:boss_id/questions
// Validates per-type answer structure before anything is stored.
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question := questionFromRequest(bossID, &req)
	if err := h.questionService.Add(c.Request.Context(), question); err != nil {
		failQuestionError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// UpdateQuestion godoc
// PATCH /api/v1/questions/:question_id
// Replaces a question's content while the owning boss is still a draft.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question := questionFromRequest(uuid.Nil, &req)
	question.ID = questionID
	if err := h.questionService.Update(c.Request.Context(), question); err != nil {
		failQuestionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// DeleteQuestion godoc
// DELETE /api/v1/questions/:question_id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), questionID); err != nil {
		failQuestionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "question deleted"})
}

// ImportQuestions godoc
// POST /api/v1/bosses/:boss_id/questions/import
// Best-effort import from the question bank; unmappable bank questions are
// reported as skipped, never failing the batch.
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	bossID, err := uuid.Parse(c.Param("boss_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ImportQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	summary, err := h.questionService.ImportFromBank(c.Request.Context(), bossID, req.BankQuestionIDs)
	if err != nil {
		failQuestionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"import": summary})
}

func questionFromRequest(bossID uuid.UUID, req *model.AddQuestionRequest) *model.BattleQuestion {
	return &model.BattleQuestion{
		BossID:           bossID,
		QuestionType:     model.BattleQuestionType(req.QuestionType),
		Prompt:           req.Prompt,
		ImageURL:         req.ImageURL,
		Options:          req.Options,
		Pairs:            req.Pairs,
		CorrectIndex:     req.CorrectIndex,
		CorrectIndices:   req.CorrectIndices,
		Damage:           req.Damage,
		HPPenalty:        req.HPPenalty,
		TimeLimitSeconds: req.TimeLimitSeconds,
		OrderNum:         req.OrderNum,
	}
}

// failQuestionError maps question domain errors onto HTTP responses.
func failQuestionError(c *gin.Context, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		fields := make(map[string]string, len(ve.Rules))
		for i, rule := range ve.Rules {
			fields[fieldKey(i)] = rule
		}
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrBossNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrBossNotDraft)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func fieldKey(i int) string {
	return "rule_" + strconv.Itoa(i+1)
}
