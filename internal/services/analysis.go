package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stockpulse/stockpulse-go/internal/advisor"
	"github.com/stockpulse/stockpulse-go/internal/cache"
	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/telemetry"
	"github.com/stockpulse/stockpulse-go/internal/validate"
)

// FundamentalsProvider is the company-overview contract satisfied by
// providers.FundamentalsClient.
type FundamentalsProvider interface {
	Fetch(ctx context.Context, symbol string) (*models.Fundamentals, error)
}

// AdvisorClient is the text-completion contract satisfied by
// advisor.Client.
type AdvisorClient interface {
	Complete(ctx context.Context, system, user, model string) (string, error)
	DefaultModel() string
}

// AnalysisRequest is the advisory request accepted from clients.
type AnalysisRequest struct {
	Symbol       string               `json:"symbol"`
	StockData    models.StockSnapshot `json:"stockData"`
	ForceRefresh bool                 `json:"forceRefresh"`
	Model        string               `json:"model"`
}

// AnalysisResult is the advisory envelope. CachedAt and ExpiresIn are only
// set on cache hits.
type AnalysisResult struct {
	Analysis  *models.AIAnalysis `json:"analysis"`
	Model     string             `json:"model"`
	Cached    bool               `json:"cached"`
	CachedAt  string             `json:"cachedAt,omitempty"`
	ExpiresIn int                `json:"expiresIn,omitempty"`
}

// cachedAnalysis is the stored form of a completed advisory.
type cachedAnalysis struct {
	Analysis *models.AIAnalysis `json:"analysis"`
	Model    string             `json:"model"`
	CachedAt time.Time          `json:"cachedAt"`
}

// AnalysisService orchestrates the advisory pipeline: enrich the prompt from
// every available source in parallel, call the completion service, validate
// the reply, and substitute the fixed neutral fallback on any failure.
type AnalysisService struct {
	advisor      AdvisorClient
	indicators   *IndicatorService
	news         *NewsService
	fundamentals FundamentalsProvider
	store        cache.Store
	ttl          config.TTLConfig
	clock        cache.Clock
	logger       *logrus.Logger
}

func NewAnalysisService(client AdvisorClient, indicators *IndicatorService, news *NewsService, fundamentals FundamentalsProvider, store cache.Store, ttl config.TTLConfig, logger *logrus.Logger) *AnalysisService {
	return &AnalysisService{
		advisor:      client,
		indicators:   indicators,
		news:         news,
		fundamentals: fundamentals,
		store:        store,
		ttl:          ttl,
		clock:        time.Now,
		logger:       logger,
	}
}

// Analyze runs the advisory pipeline for one symbol. ForceRefresh bypasses
// the cache read but still writes the fresh result back.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	symbol, err := validate.NormalizeSymbol(req.Symbol)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = s.advisor.DefaultModel()
	}

	key := "analysis:" + symbol + ":" + model
	if !req.ForceRefresh {
		if stored, ok := cache.GetJSON[cachedAnalysis](ctx, s.store, key); ok {
			remaining := s.ttl.Analysis - s.clock().Sub(stored.CachedAt)
			if remaining < 0 {
				remaining = 0
			}
			return &AnalysisResult{
				Analysis:  stored.Analysis,
				Model:     stored.Model,
				Cached:    true,
				CachedAt:  stored.CachedAt.UTC().Format(time.RFC3339),
				ExpiresIn: int(remaining.Seconds()),
			}, nil
		}
	}

	ctx, span := telemetry.StartSpan(ctx, "analysis.run")
	defer span.End()

	enrich := s.enrich(ctx, symbol)
	system, user := advisor.BuildPrompt(symbol, req.StockData, enrich)

	analysis := s.complete(ctx, symbol, system, user, model, req.StockData.CurrentPrice)

	cache.SetJSON(ctx, s.store, key, cachedAnalysis{
		Analysis: analysis,
		Model:    model,
		CachedAt: s.clock().UTC(),
	}, s.ttl.Analysis)

	return &AnalysisResult{Analysis: analysis, Model: model, Cached: false}, nil
}

// complete calls the completion service and validates its reply. Every
// failure path lands on the fixed neutral fallback; the request price is
// carried into the fallback's targets.
func (s *AnalysisService) complete(ctx context.Context, symbol, system, user, model string, price float64) *models.AIAnalysis {
	raw, err := s.advisor.Complete(ctx, system, user, model)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Advisory completion failed, using fallback")
		return advisor.FallbackAnalysis(price)
	}

	analysis, err := advisor.ParseAnalysis(raw)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Advisory reply failed validation, using fallback")
		return advisor.FallbackAnalysis(price)
	}
	return analysis
}

// enrich gathers optional prompt context from every source concurrently.
// Each source failure narrows the prompt instead of blocking it.
func (s *AnalysisService) enrich(ctx context.Context, symbol string) advisor.Enrichment {
	var (
		wg     sync.WaitGroup
		enrich advisor.Enrichment
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		indicators, _, err := s.indicators.GetIndicators(ctx, symbol)
		if err != nil {
			s.logger.WithField("symbol", symbol).Debugf("Indicator enrichment unavailable: %v", err)
			return
		}
		enrich.RSI = indicators.RSI
		enrich.MACD = indicators.MACD
	}()
	go func() {
		defer wg.Done()
		fundamentals, err := s.getFundamentals(ctx, symbol)
		if err != nil {
			s.logger.WithField("symbol", symbol).Debugf("Fundamentals enrichment unavailable: %v", err)
			return
		}
		enrich.Fundamentals = fundamentals
	}()
	go func() {
		defer wg.Done()
		news, _, err := s.news.GetNews(ctx, symbol)
		if err != nil {
			s.logger.WithField("symbol", symbol).Debugf("News enrichment unavailable: %v", err)
			return
		}
		if len(news.Items) > 0 {
			overall := news.Overall
			enrich.NewsOverall = &overall
			enrich.NewsScore = news.Score
			enrich.NewsCount = len(news.Items)
		}
	}()
	wg.Wait()

	return enrich
}

// getFundamentals fetches company fundamentals through the response cache.
func (s *AnalysisService) getFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	key := "fundamentals:" + symbol
	if cached, ok := cache.GetJSON[models.Fundamentals](ctx, s.store, key); ok {
		return cached, nil
	}

	fundamentals, err := s.fundamentals.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, s.store, key, fundamentals, s.ttl.Fundamentals)
	return fundamentals, nil
}
