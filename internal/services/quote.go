package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stockpulse/stockpulse-go/internal/analytics"
	"github.com/stockpulse/stockpulse-go/internal/cache"
	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/providers"
	"github.com/stockpulse/stockpulse-go/internal/telemetry"
	"github.com/stockpulse/stockpulse-go/internal/utils"
	"github.com/stockpulse/stockpulse-go/internal/validate"
)

const (
	quoteInterval = "1d"
	quoteRange    = "1mo"
)

// ChartProvider is the quote-source contract. providers.ChartClient is the
// live implementation; tests supply stubs.
type ChartProvider interface {
	Quote(ctx context.Context, symbol, interval, rng string) (*models.Quote, error)
}

// QuoteService resolves a symbol to a derived quote: validate, consult the
// cache, fetch, compute Sharpe and trend, store.
type QuoteService struct {
	chart        ChartProvider
	demo         *providers.DemoGenerator
	store        cache.Store
	ttl          config.TTLConfig
	demoFallback bool
	clock        cache.Clock
	logger       *logrus.Logger
}

func NewQuoteService(chart ChartProvider, demo *providers.DemoGenerator, store cache.Store, ttl config.TTLConfig, demoFallback bool, logger *logrus.Logger) *QuoteService {
	return &QuoteService{
		chart:        chart,
		demo:         demo,
		store:        store,
		ttl:          ttl,
		demoFallback: demoFallback,
		clock:        time.Now,
		logger:       logger,
	}
}

// GetQuote returns the derived quote for a raw symbol and whether it was
// served from cache. An unknown symbol stays a not-found error; provider
// outages fall back to demo data only when the fallback policy allows it.
func (s *QuoteService) GetQuote(ctx context.Context, rawSymbol string) (*models.Quote, bool, error) {
	symbol, err := validate.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, false, err
	}

	key := "quote:" + symbol
	if quote, ok := cache.GetJSON[models.Quote](ctx, s.store, key); ok {
		return quote, true, nil
	}

	ctx, span := telemetry.StartSpan(ctx, "quote.fetch")
	defer span.End()

	quote, err := s.chart.Quote(ctx, symbol, quoteInterval, quoteRange)
	if err != nil {
		var notFound *utils.NotFoundError
		if errors.As(err, &notFound) || !s.demoFallback {
			return nil, false, err
		}
		s.logger.WithFields(logrus.Fields{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Chart provider failed, serving demo data")
		quote = s.demo.Quote(symbol, s.clock())
	}

	s.deriveMetrics(quote)
	cache.SetJSON(ctx, s.store, key, quote, s.ttl.Quote)
	return quote, false, nil
}

// deriveMetrics fills the Sharpe ratio and trend from the quote's close
// series. Short series yield a zero Sharpe and a neutral trend.
func (s *QuoteService) deriveMetrics(quote *models.Quote) {
	sharpe := analytics.SharpeRatio(quote.ClosePrices())
	quote.SharpeRatio = sharpe
	quote.Trend = analytics.TrendFromSharpe(sharpe)
}
