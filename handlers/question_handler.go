package handlers

import (
	"net/http"
	"strconv"

	"tivuchprep-backend/repository"

	"github.com/gin-gonic/gin"
)

// QuestionHandler handles HTTP requests for generated practice questions
type QuestionHandler struct {
	questionRepo *repository.GeneratedQuestionRepository
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionRepo *repository.GeneratedQuestionRepository) *QuestionHandler {
	return &QuestionHandler{
		questionRepo: questionRepo,
	}
}

// ListQuestions handles GET /api/questions?doc_id=&limit=&offset=
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	docID := c.Query("doc_id")
	if docID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "doc_id query parameter is required",
			},
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	questions, err := h.questionRepo.ListByDoc(c.Request.Context(), docID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"questions": questions,
			"count":     len(questions),
		},
	})
}
