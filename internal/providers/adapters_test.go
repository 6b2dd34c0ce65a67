package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

func newJSONServer(t *testing.T, status int, body interface{}) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewsClient_Fetch(t *testing.T) {
	published := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC).Unix()
	body := newsFeedResponse{Items: []NewsFeedItem{
		{Title: strPtr("Shares surge on earnings beat"), URL: strPtr("https://example.com/a"), Summary: "Quarterly results", PublishedAt: &published, Source: "Newswire"},
		{Title: strPtr("Missing link dropped"), PublishedAt: &published},
		{URL: strPtr("https://example.com/c"), PublishedAt: &published},
	}}
	server := newJSONServer(t, http.StatusOK, body)
	client := NewNewsClient(config.ProviderConfig{BaseURL: server.URL, Timeout: 5})

	items, err := client.Fetch(context.Background(), "AAPL", time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Shares surge on earnings beat", *items[0].Title)
}

func TestNewsClient_EmptyFeedIsValid(t *testing.T) {
	server := newJSONServer(t, http.StatusOK, newsFeedResponse{})
	client := NewNewsClient(config.ProviderConfig{BaseURL: server.URL, Timeout: 5})

	items, err := client.Fetch(context.Background(), "AAPL", time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFxClient_Rate(t *testing.T) {
	updated := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC).Unix()
	server := newJSONServer(t, http.StatusOK, RatesResponse{
		Base:      "USD",
		Rates:     map[string]float64{"KRW": 1337.42, "EUR": 0.91},
		UpdatedAt: &updated,
	})
	client := NewFxClient(config.ProviderConfig{BaseURL: server.URL, Timeout: 5})

	rate, at, err := client.Rate(context.Background(), "USD", "KRW")
	require.NoError(t, err)
	assert.Equal(t, 1337.42, rate)
	assert.Equal(t, time.Unix(updated, 0).UTC(), at)
}

func TestFxClient_MissingRateIsShapeFailure(t *testing.T) {
	server := newJSONServer(t, http.StatusOK, RatesResponse{Base: "USD", Rates: map[string]float64{"EUR": 0.91}})
	client := NewFxClient(config.ProviderConfig{BaseURL: server.URL, Timeout: 5})

	_, _, err := client.Rate(context.Background(), "USD", "KRW")
	require.Error(t, err)
	var shapeErr *utils.ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestIndicatorClient_Fetch(t *testing.T) {
	server := newJSONServer(t, http.StatusOK, IndicatorResponse{
		Symbol: "AAPL",
		RSI:    floatPtr(64.2),
		MACD:   &MACDValues{MACD: floatPtr(1.2), Signal: floatPtr(0.9), Histogram: floatPtr(0.3)},
	})
	client := NewIndicatorClient(config.ProviderConfig{BaseURL: server.URL, Timeout: 5})

	resp, err := client.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 64.2, *resp.RSI)
	assert.Equal(t, 0.3, *resp.MACD.Histogram)
}

func TestIndicatorClient_ShapeFailures(t *testing.T) {
	tests := []struct {
		name string
		body IndicatorResponse
	}{
		{"nothing present", IndicatorResponse{Symbol: "AAPL"}},
		{"partial macd", IndicatorResponse{Symbol: "AAPL", MACD: &MACDValues{MACD: floatPtr(1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newJSONServer(t, http.StatusOK, tt.body)
			client := NewIndicatorClient(config.ProviderConfig{BaseURL: server.URL, Timeout: 5})
			_, err := client.Fetch(context.Background(), "AAPL")
			require.Error(t, err)
			var shapeErr *utils.ShapeError
			assert.ErrorAs(t, err, &shapeErr)
		})
	}
}

func TestFundamentalsClient_Fetch(t *testing.T) {
	server := newJSONServer(t, http.StatusOK, fundamentalsResponse{
		Symbol:  "AAPL",
		PERatio: floatPtr(28.347),
		EPS:     floatPtr(6.421),
	})
	client := NewFundamentalsClient(config.ProviderConfig{BaseURL: server.URL, Timeout: 5})

	f, err := client.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 28.35, f.PERatio)
	assert.Equal(t, 6.42, f.EPS)
	assert.Zero(t, f.MarketCap)
}

func TestFundamentalsClient_MissingRequired(t *testing.T) {
	server := newJSONServer(t, http.StatusOK, fundamentalsResponse{Symbol: "AAPL", EPS: floatPtr(6.42)})
	client := NewFundamentalsClient(config.ProviderConfig{BaseURL: server.URL, Timeout: 5})

	_, err := client.Fetch(context.Background(), "AAPL")
	require.Error(t, err)
	var shapeErr *utils.ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestDemoGenerator_Deterministic(t *testing.T) {
	gen := NewDemoGenerator(42)
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	first := gen.Quote("AAPL", now)
	second := gen.Quote("AAPL", now)
	assert.Equal(t, first, second, "same seed and symbol must reproduce the series")

	other := gen.Quote("MSFT", now)
	assert.NotEqual(t, first.CurrentPrice, other.CurrentPrice)
}

func TestDemoGenerator_QuoteShape(t *testing.T) {
	gen := NewDemoGenerator(7)
	quote := gen.Quote("TSLA", time.Now())

	require.Len(t, quote.OHLC, 5)
	for _, bar := range quote.OHLC {
		assert.GreaterOrEqual(t, bar.High, bar.Open)
		assert.GreaterOrEqual(t, bar.High, bar.Close)
		assert.LessOrEqual(t, bar.Low, bar.Open)
		assert.LessOrEqual(t, bar.Low, bar.Close)
		assert.Positive(t, bar.Volume)
	}
	assert.Equal(t, quote.OHLC[4].Close, quote.CurrentPrice)
	assert.Equal(t, quote.OHLC[3].Close, quote.PreviousClose)
}

func TestDemoGenerator_Closes(t *testing.T) {
	gen := NewDemoGenerator(7)
	closes := gen.Closes("TSLA", 40)
	require.Len(t, closes, 40)
	assert.Equal(t, closes, gen.Closes("TSLA", 40))
}
