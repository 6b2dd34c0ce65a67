package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/services"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

// MarketHandler serves the market-overview and exchange-rate endpoints.
type MarketHandler struct {
	market *services.MarketService
}

func NewMarketHandler(market *services.MarketService) *MarketHandler {
	return &MarketHandler{market: market}
}

// OverviewResponse is the benchmark-index envelope.
type OverviewResponse struct {
	Indices     []models.MarketIndex `json:"indices"`
	LastUpdated string               `json:"lastUpdated"`
	Cached      bool                 `json:"cached"`
}

// GetOverview handles GET /api/v1/market-overview.
func (h *MarketHandler) GetOverview(c *gin.Context) {
	indices, cached, err := h.market.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OverviewResponse{
		Indices:     indices,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Cached:      cached,
	})
}

// GetExchangeRate handles GET /api/v1/exchange-rate.
func (h *MarketHandler) GetExchangeRate(c *gin.Context) {
	rate, _, err := h.market.Rate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

// Convert handles GET /api/v1/exchange-rate/convert?amount=.
func (h *MarketHandler) Convert(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		respondError(c, utils.NewInvalidInputError("amount must be a number"))
		return
	}

	conversion, err := h.market.Convert(c.Request.Context(), amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversion)
}
