package models

// Sentiment is the three-state scale all provider sentiment encodings are
// normalized onto.
type Sentiment string

const (
	SentimentBullish Sentiment = "Bullish"
	SentimentBearish Sentiment = "Bearish"
	SentimentNeutral Sentiment = "Neutral"
)

// NewsItem is one normalized feed entry. SentimentScore is bounded to
// [-1, 1]; Summary is truncated to 200 characters by the normalizer.
type NewsItem struct {
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Summary        string    `json:"summary"`
	Source         string    `json:"source"`
	PublishedAt    string    `json:"publishedAt"`
	Sentiment      Sentiment `json:"sentiment"`
	SentimentScore float64   `json:"sentimentScore"`
	Image          string    `json:"image,omitempty"`
}
