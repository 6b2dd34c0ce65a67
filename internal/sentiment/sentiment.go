// Package sentiment maps heterogeneous provider sentiment encodings onto a
// single three-state scale with a bounded numeric score.
package sentiment

import (
	"strings"

	"github.com/stockpulse/stockpulse-go/internal/models"
)

// positiveTerms and negativeTerms are the fixed lexicons for the keyword
// strategy. Matching is case-insensitive substring occurrence counting.
var positiveTerms = []string{
	"surge", "soar", "rally", "gain", "jump", "climb", "rise", "rebound",
	"upgrade", "outperform", "beat", "record", "strong", "growth", "profit",
	"bullish", "positive", "boost", "expand", "upside", "breakthrough",
	"momentum", "recover", "optimistic", "exceed", "robust", "buyback",
	"dividend", "innovation", "partnership", "approval", "milestone",
}

var negativeTerms = []string{
	"plunge", "tumble", "slump", "drop", "fall", "decline", "sink", "crash",
	"downgrade", "underperform", "miss", "loss", "weak", "bearish",
	"negative", "layoff", "lawsuit", "probe", "recall", "warning", "risk",
	"debt", "default", "bankruptcy", "fraud", "selloff", "downside",
	"slowdown", "disappoint", "shortfall", "volatile", "halt",
}

// FromLabel normalizes a provider-supplied free-text sentiment label. The
// numeric score, when the provider gives one, passes through unchanged.
func FromLabel(label string, score float64) (models.Sentiment, float64) {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "bullish") || strings.Contains(lower, "positive"):
		return models.SentimentBullish, score
	case strings.Contains(lower, "bearish") || strings.Contains(lower, "negative"):
		return models.SentimentBearish, score
	default:
		return models.SentimentNeutral, score
	}
}

// ScoreText applies the lexical keyword strategy to free text, typically a
// concatenated headline and summary. The score is
// (pos-neg)/max(pos+neg, 1) clamped to [-1, 1]; a tie or an empty match set
// is neutral with the score forced to zero.
func ScoreText(text string) (models.Sentiment, float64) {
	lower := strings.ToLower(text)

	var posCount, negCount int
	for _, term := range positiveTerms {
		posCount += strings.Count(lower, term)
	}
	for _, term := range negativeTerms {
		negCount += strings.Count(lower, term)
	}

	total := posCount + negCount
	if total < 1 {
		total = 1
	}
	score := float64(posCount-negCount) / float64(total)
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}

	switch {
	case posCount > negCount && posCount >= 1:
		return models.SentimentBullish, score
	case negCount > posCount && negCount >= 1:
		return models.SentimentBearish, score
	default:
		return models.SentimentNeutral, 0
	}
}

// Aggregate reduces per-item scores to one overall sentiment: the mean
// labeled bullish above 0.15, bearish below -0.15, neutral between.
func Aggregate(scores []float64) (models.Sentiment, float64) {
	if len(scores) == 0 {
		return models.SentimentNeutral, 0
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))

	switch {
	case mean > 0.15:
		return models.SentimentBullish, mean
	case mean < -0.15:
		return models.SentimentBearish, mean
	default:
		return models.SentimentNeutral, mean
	}
}
