package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stockpulse/stockpulse-go/internal/analytics"
	"github.com/stockpulse/stockpulse-go/internal/cache"
	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/telemetry"
	"github.com/stockpulse/stockpulse-go/internal/validate"
)

// FxProvider is the currency-rate contract satisfied by providers.FxClient.
type FxProvider interface {
	Rate(ctx context.Context, base, quote string) (float64, time.Time, error)
}

// ExchangeRate is the published rate for the configured currency pair.
type ExchangeRate struct {
	Base        string  `json:"base"`
	Quote       string  `json:"quote"`
	Rate        float64 `json:"rate"`
	LastUpdated string  `json:"lastUpdated"`
	Fallback    bool    `json:"fallback,omitempty"`
}

// Conversion is the result of converting an amount at the current rate.
type Conversion struct {
	Amount    float64 `json:"amount"`
	Rate      float64 `json:"rate"`
	Converted float64 `json:"converted"`
	Base      string  `json:"base"`
	Quote     string  `json:"quote"`
}

// MarketService serves the benchmark-index overview and the exchange rate.
// Index fetches tolerate partial failure; a dead fx provider degrades to
// the configured fallback rate rather than an error.
type MarketService struct {
	quotes *QuoteService
	fx     FxProvider
	store  cache.Store
	ttl    config.TTLConfig
	fxCfg  config.FxConfig
	market config.MarketConfig
	clock  cache.Clock
	logger *logrus.Logger
}

func NewMarketService(quotes *QuoteService, fx FxProvider, store cache.Store, ttl config.TTLConfig, fxCfg config.FxConfig, market config.MarketConfig, logger *logrus.Logger) *MarketService {
	return &MarketService{
		quotes: quotes,
		fx:     fx,
		store:  store,
		ttl:    ttl,
		fxCfg:  fxCfg,
		market: market,
		clock:  time.Now,
		logger: logger,
	}
}

// Overview fetches all configured benchmark indices concurrently and
// returns those that resolved, sorted by symbol. It only fails when every
// index fetch failed.
func (s *MarketService) Overview(ctx context.Context) ([]models.MarketIndex, bool, error) {
	const key = "market:indices"
	if indices, ok := cache.GetJSON[[]models.MarketIndex](ctx, s.store, key); ok {
		return *indices, true, nil
	}

	ctx, span := telemetry.StartSpan(ctx, "market.overview")
	defer span.End()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		indices []models.MarketIndex
		lastErr error
	)
	for symbol, name := range s.market.IndexSymbols {
		wg.Add(1)
		go func(symbol, name string) {
			defer wg.Done()
			quote, _, err := s.quotes.GetQuote(ctx, symbol)
			if err != nil {
				s.logger.WithFields(logrus.Fields{
					"symbol": symbol,
					"error":  err.Error(),
				}).Warn("Skipping index in market overview")
				mu.Lock()
				lastErr = err
				mu.Unlock()
				return
			}
			mu.Lock()
			indices = append(indices, models.MarketIndex{
				Symbol:        symbol,
				Name:          name,
				Price:         quote.CurrentPrice,
				Change:        quote.Change,
				ChangePercent: quote.ChangePercent,
			})
			mu.Unlock()
		}(symbol, name)
	}
	wg.Wait()

	if len(indices) == 0 {
		return nil, false, lastErr
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i].Symbol < indices[j].Symbol })

	cache.SetJSON(ctx, s.store, key, indices, s.ttl.MarketIndex)
	return indices, false, nil
}

// Rate returns the configured currency pair's rate, substituting the
// hardcoded fallback when the provider cannot supply one.
func (s *MarketService) Rate(ctx context.Context) (*ExchangeRate, bool, error) {
	key := "fx:" + s.fxCfg.Base + ":" + s.fxCfg.Quote
	if rate, ok := cache.GetJSON[ExchangeRate](ctx, s.store, key); ok {
		return rate, true, nil
	}

	result := &ExchangeRate{Base: s.fxCfg.Base, Quote: s.fxCfg.Quote}
	rate, updated, err := s.fx.Rate(ctx, s.fxCfg.Base, s.fxCfg.Quote)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"pair":  s.fxCfg.Base + "/" + s.fxCfg.Quote,
			"error": err.Error(),
		}).Warn("Fx provider failed, using fallback rate")
		result.Rate = s.fxCfg.FallbackRate
		result.LastUpdated = s.clock().UTC().Format(time.RFC3339)
		result.Fallback = true
	} else {
		result.Rate = rate
		result.LastUpdated = updated.Format(time.RFC3339)
	}

	cache.SetJSON(ctx, s.store, key, result, s.ttl.ExchangeRate)
	return result, false, nil
}

// Convert converts a bounded positive amount at the current rate.
func (s *MarketService) Convert(ctx context.Context, amount float64) (*Conversion, error) {
	amount, err := validate.Amount(amount)
	if err != nil {
		return nil, err
	}

	rate, _, err := s.Rate(ctx)
	if err != nil {
		return nil, err
	}

	return &Conversion{
		Amount:    amount,
		Rate:      rate.Rate,
		Converted: analytics.Round2(amount * rate.Rate),
		Base:      rate.Base,
		Quote:     rate.Quote,
	}, nil
}
