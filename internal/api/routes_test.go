package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/stockpulse/stockpulse-go/internal/api/handlers"
	"github.com/stockpulse/stockpulse-go/internal/cache"
	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/middleware"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/providers"
	"github.com/stockpulse/stockpulse-go/internal/services"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

type downChart struct{}

func (downChart) Quote(ctx context.Context, symbol, interval, rng string) (*models.Quote, error) {
	return nil, utils.NewUpstreamError("chart-provider", "down")
}

type downFeed struct{}

func (downFeed) Fetch(ctx context.Context, symbol string, from, to time.Time) ([]providers.NewsFeedItem, error) {
	return nil, nil
}

type downIndicators struct{}

func (downIndicators) Fetch(ctx context.Context, symbol string) (*providers.IndicatorResponse, error) {
	return nil, utils.NewUpstreamError("indicator-provider", "down")
}

type downFx struct{}

func (downFx) Rate(ctx context.Context, base, quote string) (float64, time.Time, error) {
	return 0, time.Time{}, utils.NewUpstreamError("fx-provider", "down")
}

type downAdvisor struct{}

func (downAdvisor) Complete(ctx context.Context, system, user, model string) (string, error) {
	return "", utils.NewUpstreamError("advisory-service", "down")
}

func (downAdvisor) DefaultModel() string { return "gpt-4o-mini" }

// testRouter builds a full router on demo fallbacks only, no live providers.
func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	store := cache.NewMemoryStore()
	demo := providers.NewDemoGenerator(1)
	ttl := config.TTLConfig{
		Quote: time.Minute, MarketIndex: time.Minute, ExchangeRate: time.Minute,
		News: time.Minute, Indicators: time.Minute, Analysis: time.Hour, Fundamentals: time.Hour,
	}

	quotes := services.NewQuoteService(downChart{}, demo, store, ttl, true, logger)
	news := services.NewNewsService(downFeed{}, store, ttl, logger)
	indicators := services.NewIndicatorService(downIndicators{}, demo, store, ttl, true, logger)
	market := services.NewMarketService(quotes, downFx{}, store, ttl,
		config.FxConfig{Base: "USD", Quote: "KRW", FallbackRate: 1350},
		config.MarketConfig{IndexSymbols: map[string]string{"^GSPC": "S&P 500"}, DemoFallback: true},
		logger)
	analysis := services.NewAnalysisService(downAdvisor{}, indicators, news, providers.NewFundamentalsClient(config.ProviderConfig{BaseURL: "http://127.0.0.1:1"}), store, ttl, logger)

	router := gin.New()
	SetupRoutes(router, Handlers{
		Quote:    handlers.NewQuoteHandler(quotes, news, indicators),
		Market:   handlers.NewMarketHandler(market),
		Analysis: handlers.NewAnalysisHandler(analysis),
		Health:   handlers.NewHealthHandler("test", nil),
	}, middleware.NewAuthMiddleware(""), 100, time.Minute)
	return router
}

func TestRoutesRegistered(t *testing.T) {
	router := testRouter(t)

	cases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/quote/AAPL", "", http.StatusOK},
		{http.MethodGet, "/api/v1/quote/AAPL/news", "", http.StatusOK},
		{http.MethodGet, "/api/v1/quote/AAPL/indicators", "", http.StatusOK},
		{http.MethodGet, "/api/v1/market-overview", "", http.StatusOK},
		{http.MethodGet, "/api/v1/exchange-rate", "", http.StatusOK},
		{http.MethodGet, "/api/v1/exchange-rate/convert?amount=10", "", http.StatusOK},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRateLimitAppliedToQuoteRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	store := cache.NewMemoryStore()
	demo := providers.NewDemoGenerator(1)
	ttl := config.TTLConfig{Quote: time.Minute, News: time.Minute, Indicators: time.Minute, Analysis: time.Hour}

	quotes := services.NewQuoteService(downChart{}, demo, store, ttl, true, logger)
	news := services.NewNewsService(downFeed{}, store, ttl, logger)
	indicators := services.NewIndicatorService(downIndicators{}, demo, store, ttl, true, logger)
	market := services.NewMarketService(quotes, downFx{}, store, ttl,
		config.FxConfig{Base: "USD", Quote: "KRW", FallbackRate: 1350},
		config.MarketConfig{IndexSymbols: map[string]string{"^GSPC": "S&P 500"}},
		logger)
	analysis := services.NewAnalysisService(downAdvisor{}, indicators, news, providers.NewFundamentalsClient(config.ProviderConfig{BaseURL: "http://127.0.0.1:1"}), store, ttl, logger)

	router := gin.New()
	SetupRoutes(router, Handlers{
		Quote:    handlers.NewQuoteHandler(quotes, news, indicators),
		Market:   handlers.NewMarketHandler(market),
		Analysis: handlers.NewAnalysisHandler(analysis),
		Health:   handlers.NewHealthHandler("test", nil),
	}, middleware.NewAuthMiddleware(""), 3, time.Minute)

	var last int
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quote/AAPL", nil))
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// Health stays outside the limiter.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
