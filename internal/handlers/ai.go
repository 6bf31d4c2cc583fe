package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/analysis"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/repository"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/services"
)

// AIHandler exposes the two assistant calls the leader UI offers. Both
// degrade gracefully: the endpoints always return 200 with whatever the
// service produced.
type AIHandler struct {
	log *zap.Logger
	ai  *services.AIService
}

func NewAIHandler(log *zap.Logger, ai *services.AIService) *AIHandler {
	return &AIHandler{log: log, ai: ai}
}

type suggestRequest struct {
	Description string `json:"description" binding:"required"`
}

// Suggest proposes attribute names for a product description.
func (h *AIHandler) Suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	attrs := h.ai.SuggestAttributes(c.Request.Context(), req.Description)
	if attrs == nil {
		attrs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"attributes": attrs})
}

type analyzeRequest struct {
	TestID uint `json:"testId" binding:"required"`
}

// Analyze produces a narrative reading of a test's aggregated results.
func (h *AIHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	test, err := repository.GetTest(c.Request.Context(), req.TestID)
	if err == repository.ErrTestNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load test for analysis", zap.Error(err), zap.Uint("test_id", req.TestID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load test"})
		return
	}
	results, err := repository.ListResults(c.Request.Context(), test.ID)
	if err != nil {
		h.log.Error("Failed to load results for analysis", zap.Error(err), zap.Uint("test_id", test.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load results"})
		return
	}

	summary := analysis.Summarize(*test, results)
	narrative := h.ai.Analyze(c.Request.Context(), test.Name, string(test.Method), summary)
	c.JSON(http.StatusOK, gin.H{"narrative": narrative})
}
