package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/services"
)

// QuoteHandler serves the per-symbol quote, news, and indicator endpoints.
type QuoteHandler struct {
	quotes     *services.QuoteService
	news       *services.NewsService
	indicators *services.IndicatorService
}

func NewQuoteHandler(quotes *services.QuoteService, news *services.NewsService, indicators *services.IndicatorService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, news: news, indicators: indicators}
}

// NewsResponse wraps the normalized feed with its cache provenance.
type NewsResponse struct {
	News             []models.NewsItem `json:"news"`
	OverallSentiment models.Sentiment  `json:"overallSentiment"`
	SentimentScore   float64           `json:"sentimentScore"`
	Cached           bool              `json:"cached"`
}

// IndicatorsResponse wraps the classified indicator set. RSI and MACD are
// null when the underlying series is too short.
type IndicatorsResponse struct {
	RSI    *models.TechnicalSignal `json:"rsi"`
	MACD   *models.MACDSignal      `json:"macd"`
	Cached bool                    `json:"cached"`
}

// GetQuote handles GET /api/v1/quote/:symbol.
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, _, err := h.quotes.GetQuote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetNews handles GET /api/v1/quote/:symbol/news.
func (h *QuoteHandler) GetNews(c *gin.Context) {
	result, cached, err := h.news.GetNews(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewsResponse{
		News:             result.Items,
		OverallSentiment: result.Overall,
		SentimentScore:   result.Score,
		Cached:           cached,
	})
}

// GetIndicators handles GET /api/v1/quote/:symbol/indicators.
func (h *QuoteHandler) GetIndicators(c *gin.Context) {
	result, cached, err := h.indicators.GetIndicators(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, IndicatorsResponse{
		RSI:    result.RSI,
		MACD:   result.MACD,
		Cached: cached,
	})
}
