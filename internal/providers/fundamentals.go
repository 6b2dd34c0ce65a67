package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/stockpulse/stockpulse-go/internal/analytics"
	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

const fundamentalsProviderName = "fundamentals-provider"

type fundamentalsResponse struct {
	Symbol        string   `json:"symbol"`
	PERatio       *float64 `json:"peRatio"`
	EPS           *float64 `json:"eps"`
	MarketCap     *float64 `json:"marketCap"`
	DividendYield *float64 `json:"dividendYield"`
}

// FundamentalsClient adapts the company-overview provider used for advisory
// prompt enrichment.
type FundamentalsClient struct {
	http httpClient
}

// NewFundamentalsClient creates a fundamentals adapter from config.
func NewFundamentalsClient(cfg config.ProviderConfig) *FundamentalsClient {
	return &FundamentalsClient{http: newHTTPClient(fundamentalsProviderName, cfg.BaseURL, cfg.Timeout)}
}

// Fetch retrieves and validates fundamentals for a symbol. PE ratio and EPS
// are required; the other fields default to zero when absent.
func (c *FundamentalsClient) Fetch(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	path := fmt.Sprintf("/v1/fundamentals/%s", url.PathEscape(symbol))

	var resp fundamentalsResponse
	if err := c.http.getJSON(ctx, path, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, utils.NewNotFoundError(symbol)
		}
		return nil, err
	}

	if resp.PERatio == nil || resp.EPS == nil {
		return nil, utils.NewShapeError(fundamentalsProviderName, "missing pe ratio or eps")
	}

	result := &models.Fundamentals{
		Symbol:  symbol,
		PERatio: analytics.Round2(*resp.PERatio),
		EPS:     analytics.Round2(*resp.EPS),
	}
	if resp.MarketCap != nil {
		result.MarketCap = *resp.MarketCap
	}
	if resp.DividendYield != nil {
		result.DividendYield = analytics.Round(*resp.DividendYield, 4)
	}
	return result, nil
}
