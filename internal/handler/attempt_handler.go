package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pedagolab/parcours-backend/internal/assessment"
	"github.com/pedagolab/parcours-backend/internal/middleware"
	"github.com/pedagolab/parcours-backend/internal/model"
	"github.com/pedagolab/parcours-backend/internal/response"
	"github.com/pedagolab/parcours-backend/internal/service"
	"github.com/pedagolab/parcours-backend/internal/validator"
)

// AttemptHandler handles the learner attempt lifecycle.
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// Start godoc
// POST /api/v1/learner/assessments/:assessment_id/attempts
// Starts a new attempt, or resumes the learner's live one (idempotent).
func (h *AttemptHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	assessmentID, err := uuid.Parse(c.Param("assessment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.attemptService.Start(c.Request.Context(), assessmentID, claims.LearnerID)
	if err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, state)
}

// State godoc
// GET /api/v1/learner/attempts/:attempt_id
// Returns the full snapshot of a live attempt (page reload support).
func (h *AttemptHandler) State(c *gin.Context) {
	claims, attemptID, ok := h.bind(c)
	if !ok {
		return
	}

	state, err := h.attemptService.State(attemptID, claims.LearnerID)
	if err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// History godoc
// GET /api/v1/learner/attempts?page=&per_page=
// Returns the learner's past attempts, most recent first.
func (h *AttemptHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	attempts, total, err := h.attemptService.History(c.Request.Context(), claims.LearnerID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"attempts": attempts}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// Answer godoc
// PUT /api/v1/learner/attempts/:attempt_id/steps/:step/answers/:key
// Captures one raw answer value. Capture never validates.
func (h *AttemptHandler) Answer(c *gin.Context) {
	claims, attemptID, ok := h.bind(c)
	if !ok {
		return
	}

	stepIndex, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.attemptService.RecordAnswer(c.Request.Context(), attemptID, claims.LearnerID, stepIndex, c.Param("key"), req.Value); err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "saved"})
}

// Verify godoc
// POST /api/v1/learner/attempts/:attempt_id/steps/:step/verify
// Runs the step validator and returns the per-step result.
func (h *AttemptHandler) Verify(c *gin.Context) {
	claims, attemptID, ok := h.bind(c)
	if !ok {
		return
	}

	stepIndex, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.attemptService.Verify(attemptID, claims.LearnerID, stepIndex)
	if err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Reset godoc
// POST /api/v1/learner/attempts/:attempt_id/steps/:step/reset
// Clears a step's answers and verification for a retry.
func (h *AttemptHandler) Reset(c *gin.Context) {
	claims, attemptID, ok := h.bind(c)
	if !ok {
		return
	}

	stepIndex, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.attemptService.Reset(attemptID, claims.LearnerID, stepIndex); err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "reset"})
}

// Navigate godoc
// POST /api/v1/learner/attempts/:attempt_id/navigate
// Moves the current step forward or back.
func (h *AttemptHandler) Navigate(c *gin.Context) {
	claims, attemptID, ok := h.bind(c)
	if !ok {
		return
	}

	var req model.NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	current, err := h.attemptService.Navigate(attemptID, claims.LearnerID, req.Direction)
	if err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"current_step": current})
}

// Finalize godoc
// POST /api/v1/learner/attempts/:attempt_id/finalize
// Submits the attempt and returns the aggregate result. Idempotent.
func (h *AttemptHandler) Finalize(c *gin.Context) {
	claims, attemptID, ok := h.bind(c)
	if !ok {
		return
	}

	result, err := h.attemptService.Finalize(c.Request.Context(), attemptID, claims.LearnerID)
	if err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Abandon godoc
// DELETE /api/v1/learner/attempts/:attempt_id
// Discards a live attempt without grading it.
func (h *AttemptHandler) Abandon(c *gin.Context) {
	claims, attemptID, ok := h.bind(c)
	if !ok {
		return
	}

	if err := h.attemptService.Abandon(c.Request.Context(), attemptID, claims.LearnerID); err != nil {
		failAttemptError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "abandoned"})
}

func (h *AttemptHandler) bind(c *gin.Context) (*service.Claims, uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, uuid.Nil, false
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, uuid.Nil, false
	}

	return claims, attemptID, true
}

// failAttemptError maps service and engine errors to API error codes.
func failAttemptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
	case errors.Is(err, service.ErrAttemptNotOwned):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrAttemptActive):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrAssessmentNotAvailable):
		response.Fail(c, http.StatusForbidden, response.ErrAssessmentNotAvailable)
	case errors.Is(err, service.ErrNoSteps), errors.Is(err, assessment.ErrEmptyContent):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrEmptyContent)
	case errors.Is(err, assessment.ErrSessionFinalized):
		response.Fail(c, http.StatusConflict, response.ErrAttemptFinalized)
	case errors.Is(err, assessment.ErrStepOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrStepOutOfRange)
	case errors.Is(err, assessment.ErrStepNotVerified):
		response.Fail(c, http.StatusConflict, response.ErrStepNotVerified)
	case errors.Is(err, service.ErrAttemptUntimed):
		response.Fail(c, http.StatusBadRequest, response.ErrAttemptUntimed)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
