package providers

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/stockpulse/stockpulse-go/internal/analytics"
	"github.com/stockpulse/stockpulse-go/internal/models"
)

const (
	demoBars = 5

	// demoVolatility bounds intrabar movement to ±2% of the bar price.
	demoVolatility = 0.02
)

// DemoGenerator synthesizes seeded-random market data used as an explicit
// fallback when a provider is unavailable. The same seed and symbol always
// produce the same series, and demo output is never substituted for a
// successful live response.
type DemoGenerator struct {
	seed int64
}

// NewDemoGenerator creates a generator with a fixed base seed.
func NewDemoGenerator(seed int64) *DemoGenerator {
	return &DemoGenerator{seed: seed}
}

func (g *DemoGenerator) rng(symbol string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return rand.New(rand.NewSource(g.seed ^ int64(h.Sum64())))
}

// Quote builds a five-bar demo quote around a randomized base price.
// Derived metrics (Sharpe, trend) are filled in by the caller, the same as
// for live quotes.
func (g *DemoGenerator) Quote(symbol string, now time.Time) *models.Quote {
	r := g.rng(symbol)
	base := 50 + r.Float64()*450

	bars := make([]models.PriceBar, 0, demoBars)
	prevClose := base
	day := now.UTC().AddDate(0, 0, -demoBars)
	low52 := base
	high52 := base

	for i := 0; i < demoBars; i++ {
		open := prevClose
		close := open * (1 + (r.Float64()*2-1)*demoVolatility)
		high := maxFloat(open, close) * (1 + r.Float64()*demoVolatility)
		low := minFloat(open, close) * (1 - r.Float64()*demoVolatility)

		bars = append(bars, models.PriceBar{
			Date:   day.Format("2006-01-02"),
			Open:   analytics.Round2(open),
			High:   analytics.Round2(high),
			Low:    analytics.Round2(low),
			Close:  analytics.Round2(close),
			Volume: 1_000_000 + r.Int63n(9_000_000),
		})

		if low < low52 {
			low52 = low
		}
		if high > high52 {
			high52 = high
		}
		prevClose = close
		day = day.AddDate(0, 0, 1)
	}

	last := bars[len(bars)-1]
	previous := bars[len(bars)-2].Close
	change := analytics.Round2(last.Close - previous)
	var changePercent float64
	if previous != 0 {
		changePercent = analytics.Round2(change / previous * 100)
	}

	return &models.Quote{
		Symbol:        symbol,
		Name:          symbol,
		CurrentPrice:  last.Close,
		PreviousClose: previous,
		Change:        change,
		ChangePercent: changePercent,
		DayHigh:       last.High,
		DayLow:        last.Low,
		Volume:        last.Volume,
		// widen the weekly envelope so the demo range looks like a year
		FiftyTwoWeekHigh: analytics.Round2(high52 * 1.1),
		FiftyTwoWeekLow:  analytics.Round2(low52 * 0.9),
		OHLC:             bars,
		DataSource:       models.DataSourceDemo,
	}
}

// Closes produces an n-point demo close series, long enough for indicator
// computation when the indicator provider is down.
func (g *DemoGenerator) Closes(symbol string, n int) []float64 {
	r := g.rng(symbol)
	closes := make([]float64, n)
	price := 50 + r.Float64()*450
	for i := 0; i < n; i++ {
		price *= 1 + (r.Float64()*2-1)*demoVolatility
		closes[i] = analytics.Round2(price)
	}
	return closes
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
