package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/stockpulse/stockpulse-go/internal/analytics"
	"github.com/stockpulse/stockpulse-go/internal/cache"
	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/providers"
	"github.com/stockpulse/stockpulse-go/internal/utils"
	"github.com/stockpulse/stockpulse-go/internal/validate"
)

// demoSeriesLength is long enough for both RSI(14) and MACD(12,26,9).
const demoSeriesLength = 60

// IndicatorProvider is the precomputed-indicator contract satisfied by
// providers.IndicatorClient.
type IndicatorProvider interface {
	Fetch(ctx context.Context, symbol string) (*providers.IndicatorResponse, error)
}

// IndicatorResult carries the classified indicator set for one symbol.
// Either field may be nil when the underlying series is too short.
type IndicatorResult struct {
	RSI  *models.TechnicalSignal `json:"rsi"`
	MACD *models.MACDSignal      `json:"macd"`
}

// IndicatorService resolves classified RSI and MACD readings, preferring
// provider-computed values and synthesizing from a demo close series when
// the provider is down.
type IndicatorService struct {
	indicators   IndicatorProvider
	demo         *providers.DemoGenerator
	store        cache.Store
	ttl          config.TTLConfig
	demoFallback bool
	logger       *logrus.Logger
}

func NewIndicatorService(indicators IndicatorProvider, demo *providers.DemoGenerator, store cache.Store, ttl config.TTLConfig, demoFallback bool, logger *logrus.Logger) *IndicatorService {
	return &IndicatorService{
		indicators:   indicators,
		demo:         demo,
		store:        store,
		ttl:          ttl,
		demoFallback: demoFallback,
		logger:       logger,
	}
}

// GetIndicators returns the indicator set for a raw symbol and whether it
// was served from cache.
func (s *IndicatorService) GetIndicators(ctx context.Context, rawSymbol string) (*IndicatorResult, bool, error) {
	symbol, err := validate.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, false, err
	}

	key := "indicators:" + symbol
	if result, ok := cache.GetJSON[IndicatorResult](ctx, s.store, key); ok {
		return result, true, nil
	}

	result, err := s.fetch(ctx, symbol)
	if err != nil {
		return nil, false, err
	}

	cache.SetJSON(ctx, s.store, key, result, s.ttl.Indicators)
	return result, false, nil
}

func (s *IndicatorService) fetch(ctx context.Context, symbol string) (*IndicatorResult, error) {
	resp, err := s.indicators.Fetch(ctx, symbol)
	if err != nil {
		var notFound *utils.NotFoundError
		if errors.As(err, &notFound) || !s.demoFallback {
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Indicator provider failed, computing from demo series")
		return s.computeFromDemo(symbol), nil
	}

	result := &IndicatorResult{}
	if resp.RSI != nil {
		result.RSI = &models.TechnicalSignal{
			Value:  analytics.Round2(*resp.RSI),
			Signal: analytics.ClassifyRSI(*resp.RSI),
		}
	}
	if resp.MACD != nil {
		m := resp.MACD
		result.MACD = &models.MACDSignal{
			MACD:      analytics.Round2(*m.MACD),
			Signal:    analytics.Round2(*m.Signal),
			Histogram: analytics.Round2(*m.Histogram),
			Trend:     analytics.ClassifyMACD(*m.MACD, *m.Signal, *m.Histogram),
		}
	}
	return result, nil
}

func (s *IndicatorService) computeFromDemo(symbol string) *IndicatorResult {
	closes := s.demo.Closes(symbol, demoSeriesLength)
	return &IndicatorResult{
		RSI:  analytics.RSI(closes, analytics.DefaultRSIPeriod),
		MACD: analytics.MACDFromCloses(closes),
	}
}
