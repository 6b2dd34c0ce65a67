package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/stockpulse/stockpulse-go/internal/analytics"
	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

const chartProviderName = "chart-provider"

type chartMeta struct {
	Symbol             string   `json:"symbol"`
	Name               string   `json:"name"`
	Currency           string   `json:"currency"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	PreviousClose      *float64 `json:"previousClose"`
	DayHigh            *float64 `json:"dayHigh"`
	DayLow             *float64 `json:"dayLow"`
	Volume             *int64   `json:"volume"`
	FiftyTwoWeekHigh   *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow    *float64 `json:"fiftyTwoWeekLow"`
}

type chartBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

type chartResponse struct {
	Meta *chartMeta `json:"meta"`
	Bars []chartBar `json:"bars"`
}

// ChartClient adapts the quote-chart provider (OHLC plus metadata by
// symbol/interval/range) into Quote records.
type ChartClient struct {
	http httpClient
}

// NewChartClient creates a chart provider adapter from config.
func NewChartClient(cfg config.ProviderConfig) *ChartClient {
	return &ChartClient{http: newHTTPClient(chartProviderName, cfg.BaseURL, cfg.Timeout)}
}

// Quote fetches and validates one symbol's chart and maps it to a Quote.
// The returned quote carries the ordered OHLC series; derived metrics
// (Sharpe, trend) are filled in by the caller.
func (c *ChartClient) Quote(ctx context.Context, symbol, interval, rng string) (*models.Quote, error) {
	path := fmt.Sprintf("/v1/chart/%s?interval=%s&range=%s",
		url.PathEscape(symbol), url.QueryEscape(interval), url.QueryEscape(rng))

	var resp chartResponse
	if err := c.http.getJSON(ctx, path, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, utils.NewNotFoundError(symbol)
		}
		return nil, err
	}

	meta := resp.Meta
	if meta == nil {
		return nil, utils.NewShapeError(chartProviderName, "missing meta block")
	}
	if meta.RegularMarketPrice == nil || meta.PreviousClose == nil {
		return nil, utils.NewShapeError(chartProviderName, "missing required price fields")
	}

	bars := make([]models.PriceBar, 0, len(resp.Bars))
	for _, bar := range resp.Bars {
		// optional nested fields are never trusted: a bar missing any leg
		// is dropped rather than defaulted
		if bar.Open == nil || bar.High == nil || bar.Low == nil || bar.Close == nil {
			continue
		}
		var volume int64
		if bar.Volume != nil && *bar.Volume > 0 {
			volume = int64(*bar.Volume)
		}
		bars = append(bars, models.PriceBar{
			Date:   time.Unix(bar.Timestamp, 0).UTC().Format("2006-01-02"),
			Open:   analytics.Round2(*bar.Open),
			High:   analytics.Round2(*bar.High),
			Low:    analytics.Round2(*bar.Low),
			Close:  analytics.Round2(*bar.Close),
			Volume: volume,
		})
	}
	if len(bars) == 0 {
		return nil, utils.NewShapeError(chartProviderName, "no usable OHLC bars")
	}

	current := analytics.Round2(*meta.RegularMarketPrice)
	previous := analytics.Round2(*meta.PreviousClose)
	change := analytics.Round2(current - previous)
	var changePercent float64
	if previous != 0 {
		changePercent = analytics.Round2(change / previous * 100)
	}

	quote := &models.Quote{
		Symbol:        symbol,
		Name:          meta.Name,
		Currency:      meta.Currency,
		CurrentPrice:  current,
		PreviousClose: previous,
		Change:        change,
		ChangePercent: changePercent,
		OHLC:          bars,
		DataSource:    models.DataSourceLive,
	}
	if quote.Name == "" {
		quote.Name = symbol
	}
	if meta.DayHigh != nil {
		quote.DayHigh = analytics.Round2(*meta.DayHigh)
	}
	if meta.DayLow != nil {
		quote.DayLow = analytics.Round2(*meta.DayLow)
	}
	if meta.Volume != nil {
		quote.Volume = *meta.Volume
	}
	if meta.FiftyTwoWeekHigh != nil {
		quote.FiftyTwoWeekHigh = analytics.Round2(*meta.FiftyTwoWeekHigh)
	}
	if meta.FiftyTwoWeekLow != nil {
		quote.FiftyTwoWeekLow = analytics.Round2(*meta.FiftyTwoWeekLow)
	}

	return quote, nil
}
