package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pedagolab/parcours-backend/internal/middleware"
	"github.com/pedagolab/parcours-backend/internal/response"
	"github.com/pedagolab/parcours-backend/internal/service"
)

// CatalogHandler handles the learner-facing assessment catalog.
type CatalogHandler struct {
	contentService *service.ContentService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(contentService *service.ContentService) *CatalogHandler {
	return &CatalogHandler{contentService: contentService}
}

// List godoc
// GET /api/v1/learner/catalog
// Returns the published assessments a learner can start, with the
// learner's own attempt history overlaid.
func (h *CatalogHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	entries, err := h.contentService.Catalog(c.Request.Context(), claims.LearnerID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessments": entries})
}

// Get godoc
// GET /api/v1/learner/catalog/:assessment_id
// Returns one published assessment's metadata.
func (h *CatalogHandler) Get(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("assessment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	a, err := h.contentService.GetAssessment(c.Request.Context(), assessmentID)
	if err != nil {
		if err == service.ErrAssessmentNotAvailable {
			response.Fail(c, http.StatusForbidden, response.ErrAssessmentNotAvailable)
			return
		}
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment": a})
}
