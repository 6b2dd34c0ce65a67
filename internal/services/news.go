package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stockpulse/stockpulse-go/internal/cache"
	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/providers"
	"github.com/stockpulse/stockpulse-go/internal/sentiment"
	"github.com/stockpulse/stockpulse-go/internal/validate"
)

const (
	newsLookbackDays = 7
	maxSummaryLength = 200
)

// NewsFeed is the feed-source contract satisfied by providers.NewsClient.
type NewsFeed interface {
	Fetch(ctx context.Context, symbol string, from, to time.Time) ([]providers.NewsFeedItem, error)
}

// NewsResult is the normalized news envelope for one symbol.
type NewsResult struct {
	Items   []models.NewsItem `json:"news"`
	Overall models.Sentiment  `json:"overallSentiment"`
	Score   float64           `json:"sentimentScore"`
}

// NewsService fetches and normalizes the news feed: sentiment per item,
// summary truncation, relative timestamps, and an aggregate sentiment.
type NewsService struct {
	feed   NewsFeed
	store  cache.Store
	ttl    config.TTLConfig
	clock  cache.Clock
	logger *logrus.Logger
}

func NewNewsService(feed NewsFeed, store cache.Store, ttl config.TTLConfig, logger *logrus.Logger) *NewsService {
	return &NewsService{
		feed:   feed,
		store:  store,
		ttl:    ttl,
		clock:  time.Now,
		logger: logger,
	}
}

// GetNews returns the normalized feed for a raw symbol and whether it was
// served from cache. An empty feed is a valid neutral result.
func (s *NewsService) GetNews(ctx context.Context, rawSymbol string) (*NewsResult, bool, error) {
	symbol, err := validate.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, false, err
	}

	key := "news:" + symbol
	if result, ok := cache.GetJSON[NewsResult](ctx, s.store, key); ok {
		return result, true, nil
	}

	now := s.clock()
	raw, err := s.feed.Fetch(ctx, symbol, now.AddDate(0, 0, -newsLookbackDays), now)
	if err != nil {
		return nil, false, err
	}

	result := s.normalize(raw, now)
	cache.SetJSON(ctx, s.store, key, result, s.ttl.News)
	return result, false, nil
}

func (s *NewsService) normalize(raw []providers.NewsFeedItem, now time.Time) *NewsResult {
	items := make([]models.NewsItem, 0, len(raw))
	scores := make([]float64, 0, len(raw))

	for _, entry := range raw {
		// Adapters filter incomplete entries, but the feed contract does
		// not guarantee it.
		if entry.Title == nil || entry.URL == nil || entry.PublishedAt == nil {
			continue
		}
		item := models.NewsItem{
			Title:       *entry.Title,
			URL:         *entry.URL,
			Summary:     truncateSummary(entry.Summary),
			Source:      entry.Source,
			PublishedAt: relativeTime(time.Unix(*entry.PublishedAt, 0), now),
			Image:       entry.Image,
		}

		if entry.Sentiment != "" {
			score := 0.0
			if entry.SentimentScore != nil {
				score = clampScore(*entry.SentimentScore)
			}
			item.Sentiment, item.SentimentScore = sentiment.FromLabel(entry.Sentiment, score)
		} else {
			item.Sentiment, item.SentimentScore = sentiment.ScoreText(*entry.Title + " " + entry.Summary)
		}

		items = append(items, item)
		scores = append(scores, item.SentimentScore)
	}

	overall, score := sentiment.Aggregate(scores)
	return &NewsResult{Items: items, Overall: overall, Score: score}
}

func truncateSummary(summary string) string {
	runes := []rune(summary)
	if len(runes) <= maxSummaryLength {
		return summary
	}
	return strings.TrimSpace(string(runes[:maxSummaryLength])) + "..."
}

func clampScore(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

// relativeTime renders a published timestamp the way the dashboard shows
// it. Future or just-published items read as "just now".
func relativeTime(published, now time.Time) string {
	elapsed := now.Sub(published)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}
