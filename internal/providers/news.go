package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

const newsProviderName = "news-provider"

// NewsFeedItem is one raw, unvalidated entry from the news feed provider.
// Pointer fields are required; an item missing any of them is dropped by the
// adapter.
type NewsFeedItem struct {
	Title          *string  `json:"title"`
	URL            *string  `json:"url"`
	Summary        string   `json:"summary"`
	Source         string   `json:"source"`
	PublishedAt    *int64   `json:"publishedAt"`
	Sentiment      string   `json:"sentiment"`
	SentimentScore *float64 `json:"sentimentScore"`
	Image          string   `json:"image"`
}

type newsFeedResponse struct {
	Items []NewsFeedItem `json:"items"`
}

// NewsClient adapts the news feed provider.
type NewsClient struct {
	http httpClient
}

// NewNewsClient creates a news provider adapter from config.
func NewNewsClient(cfg config.ProviderConfig) *NewsClient {
	return &NewsClient{http: newHTTPClient(newsProviderName, cfg.BaseURL, cfg.Timeout)}
}

// Fetch retrieves raw feed items for a symbol over a date range, dropping
// entries that lack a title, link or timestamp. An empty feed is a valid
// result, not an error.
func (c *NewsClient) Fetch(ctx context.Context, symbol string, from, to time.Time) ([]NewsFeedItem, error) {
	path := fmt.Sprintf("/v1/news/%s?from=%s&to=%s",
		url.PathEscape(symbol),
		from.UTC().Format("2006-01-02"),
		to.UTC().Format("2006-01-02"))

	var resp newsFeedResponse
	if err := c.http.getJSON(ctx, path, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, utils.NewNotFoundError(symbol)
		}
		return nil, err
	}

	items := make([]NewsFeedItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Title == nil || item.URL == nil || item.PublishedAt == nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
