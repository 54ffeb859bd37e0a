package handlers

import (
	"log"
	"net/http"

	"tivuchprep-backend/models"
	"tivuchprep-backend/repository"
	"tivuchprep-backend/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultMaxBlocks = 4
	maxBlocksCeiling = 20
)

// RetrievalHandler serves the passage-retrieval endpoint: it embeds the
// question and runs a vector search over the indexed legal blocks.
type RetrievalHandler struct {
	embedder  *service.Embedder
	blockRepo *repository.LegalBlockRepository
}

// NewRetrievalHandler creates a new retrieval handler
func NewRetrievalHandler(embedder *service.Embedder, blockRepo *repository.LegalBlockRepository) *RetrievalHandler {
	return &RetrievalHandler{
		embedder:  embedder,
		blockRepo: blockRepo,
	}
}

// Retrieve handles POST /api/retrieve. On success the response body is the
// bare RetrieveResponse shape, which is what RetrievalClient decodes.
func (h *RetrievalHandler) Retrieve(c *gin.Context) {
	var req service.RetrieveRequest
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

	if req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "question is required",
			},
		})
		return
	}

	if req.MaxBlocks <= 0 {
		req.MaxBlocks = defaultMaxBlocks
	}
	if req.MaxBlocks > maxBlocksCeiling {
		req.MaxBlocks = maxBlocksCeiling
	}

	embedding, err := h.embedder.Embed(c.Request.Context(), req.Question)
	if err != nil {
		log.Printf("Failed to embed retrieval question: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMBEDDING_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	blocks, err := h.blockRepo.Search(c.Request.Context(), embedding, req.DocID, req.SectionFilter, req.MaxBlocks)
	if err != nil {
		log.Printf("Block search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SEARCH_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	if blocks == nil {
		blocks = []models.LegalBlock{}
	}

	c.JSON(http.StatusOK, service.RetrieveResponse{Blocks: blocks})
}
