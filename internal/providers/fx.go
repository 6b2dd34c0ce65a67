package providers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

const fxProviderName = "fx-provider"

// RatesResponse is the currency-rate provider's validated payload.
type RatesResponse struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	UpdatedAt *int64             `json:"updatedAt"`
}

// FxClient adapts the currency-rate provider.
type FxClient struct {
	http httpClient
}

// NewFxClient creates a currency-rate adapter from config.
func NewFxClient(cfg config.ProviderConfig) *FxClient {
	return &FxClient{http: newHTTPClient(fxProviderName, cfg.BaseURL, cfg.Timeout)}
}

// Rate fetches the conversion rate from base to quote. A missing rates map
// or an absent quote currency is a shape failure; the caller substitutes the
// configured fallback rate.
func (c *FxClient) Rate(ctx context.Context, base, quote string) (float64, time.Time, error) {
	path := fmt.Sprintf("/v1/rates?base=%s", url.QueryEscape(base))

	var resp RatesResponse
	if err := c.http.getJSON(ctx, path, &resp); err != nil {
		return 0, time.Time{}, err
	}

	if len(resp.Rates) == 0 {
		return 0, time.Time{}, utils.NewShapeError(fxProviderName, "empty rates map")
	}
	rate, ok := resp.Rates[quote]
	if !ok || rate <= 0 {
		return 0, time.Time{}, utils.NewShapeErrorf(fxProviderName, "no usable rate for %s", quote)
	}

	updated := time.Now().UTC()
	if resp.UpdatedAt != nil {
		updated = time.Unix(*resp.UpdatedAt, 0).UTC()
	}
	return rate, updated, nil
}
