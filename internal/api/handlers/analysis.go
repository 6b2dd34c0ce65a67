package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockpulse-go/internal/services"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

// AnalysisHandler serves the advisory endpoint.
type AnalysisHandler struct {
	analysis *services.AnalysisService
}

func NewAnalysisHandler(analysis *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

// Analyze handles POST /api/v1/ai-analysis.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req services.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.NewInvalidInputErrorf("invalid request body: %v", err))
		return
	}
	if req.Symbol == "" {
		respondError(c, utils.NewInvalidInputError("symbol is required"))
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
