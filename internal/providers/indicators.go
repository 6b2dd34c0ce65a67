package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

const indicatorProviderName = "indicator-provider"

// MACDValues are provider-computed MACD components. All three are required
// when the block is present.
type MACDValues struct {
	MACD      *float64 `json:"macd"`
	Signal    *float64 `json:"signal"`
	Histogram *float64 `json:"histogram"`
}

// IndicatorResponse is the technical-indicator provider's payload. RSI
// and MACD are individually optional but at least one must be present.
type IndicatorResponse struct {
	Symbol string      `json:"symbol"`
	RSI    *float64    `json:"rsi"`
	MACD   *MACDValues `json:"macd"`
}

// IndicatorClient adapts the technical-indicator provider.
type IndicatorClient struct {
	http httpClient
}

// NewIndicatorClient creates an indicator adapter from config.
func NewIndicatorClient(cfg config.ProviderConfig) *IndicatorClient {
	return &IndicatorClient{http: newHTTPClient(indicatorProviderName, cfg.BaseURL, cfg.Timeout)}
}

// Fetch retrieves precomputed indicator values for a symbol.
func (c *IndicatorClient) Fetch(ctx context.Context, symbol string) (*IndicatorResponse, error) {
	path := fmt.Sprintf("/v1/indicators/%s", url.PathEscape(symbol))

	var resp IndicatorResponse
	if err := c.http.getJSON(ctx, path, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, utils.NewNotFoundError(symbol)
		}
		return nil, err
	}

	if resp.RSI == nil && resp.MACD == nil {
		return nil, utils.NewShapeError(indicatorProviderName, "neither rsi nor macd present")
	}
	if resp.MACD != nil {
		m := resp.MACD
		if m.MACD == nil || m.Signal == nil || m.Histogram == nil {
			return nil, utils.NewShapeError(indicatorProviderName, "incomplete macd block")
		}
	}
	return &resp, nil
}
