package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockpulse-go/internal/api/handlers"
	"github.com/stockpulse/stockpulse-go/internal/middleware"
)

// aiRateDivisor gives the advisory endpoint a stricter budget than the
// data endpoints sharing the same window.
const aiRateDivisor = 3

// Handlers bundles everything SetupRoutes wires into the router.
type Handlers struct {
	Quote    *handlers.QuoteHandler
	Market   *handlers.MarketHandler
	Analysis *handlers.AnalysisHandler
	Health   *handlers.HealthHandler
}

// SetupRoutes registers all endpoints: data routes behind the shared rate
// limiter, the advisory route behind a stricter limiter plus optional
// bearer auth.
func SetupRoutes(router *gin.Engine, h Handlers, auth *middleware.AuthMiddleware, requests int, window time.Duration) {
	router.GET("/health", h.Health.HealthCheck)

	limiter := middleware.NewRateLimiter(requests, window)
	aiRequests := requests / aiRateDivisor
	if aiRequests < 1 {
		aiRequests = 1
	}
	aiLimiter := middleware.NewRateLimiter(aiRequests, window)

	v1 := router.Group("/api/v1")
	{
		quote := v1.Group("/quote", limiter.Middleware())
		{
			quote.GET("/:symbol", h.Quote.GetQuote)
			quote.GET("/:symbol/news", h.Quote.GetNews)
			quote.GET("/:symbol/indicators", h.Quote.GetIndicators)
		}

		v1.GET("/market-overview", limiter.Middleware(), h.Market.GetOverview)

		rate := v1.Group("/exchange-rate", limiter.Middleware())
		{
			rate.GET("", h.Market.GetExchangeRate)
			rate.GET("/convert", h.Market.Convert)
		}

		v1.POST("/ai-analysis", aiLimiter.Middleware(), auth.RequireAuth(), h.Analysis.Analyze)
	}
}
