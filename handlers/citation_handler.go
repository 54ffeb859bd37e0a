package handlers

import (
	"net/http"

	"tivuchprep-backend/models"
	"tivuchprep-backend/service"

	"github.com/gin-gonic/gin"
)

// CitationHandler handles HTTP requests for citation resolution
type CitationHandler struct {
	citationService *service.CitationService
}

// NewCitationHandler creates a new citation handler
func NewCitationHandler(citationService *service.CitationService) *CitationHandler {
	return &CitationHandler{
		citationService: citationService,
	}
}

// ResolveCitationRequest represents the request body for resolving a citation
type ResolveCitationRequest struct {
	QuestionText string `json:"question_text" binding:"required"`
	TopicHint    string `json:"topic_hint"`
}

// ResolveCitation handles POST /api/citations/resolve
func (h *CitationHandler) ResolveCitation(c *gin.Context) {
	var req ResolveCitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	// Resolution always yields a printable citation; failures inside the
	// pipeline degrade to the keyword fallback rather than surfacing here.
	citation := h.citationService.ResolveCitation(c.Request.Context(), models.CitationRequest{
		QuestionText: req.QuestionText,
		TopicHint:    req.TopicHint,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"citation": citation,
		},
	})
}
