package models

// RSISignal classifies an RSI value. Thresholds are asymmetric on purpose:
// overbought/bullish trip at 70/60 while oversold/bearish trip at 30/40.
type RSISignal string

const (
	RSIOverbought RSISignal = "Overbought"
	RSIBullish    RSISignal = "Bullish"
	RSIOversold   RSISignal = "Oversold"
	RSIBearish    RSISignal = "Bearish"
	RSINeutral    RSISignal = "Neutral"
)

// TechnicalSignal carries one RSI reading with its classification.
type TechnicalSignal struct {
	Value  float64   `json:"value"`
	Signal RSISignal `json:"signal"`
}

// MACDSignal carries provider-computed MACD values plus the derived trend.
type MACDSignal struct {
	MACD      float64   `json:"macd"`
	Signal    float64   `json:"signal"`
	Histogram float64   `json:"histogram"`
	Trend     Sentiment `json:"trend"`
}

// Fundamentals is the subset of company fundamentals used for advisory
// prompt enrichment.
type Fundamentals struct {
	Symbol        string  `json:"symbol"`
	PERatio       float64 `json:"peRatio"`
	EPS           float64 `json:"eps"`
	MarketCap     float64 `json:"marketCap"`
	DividendYield float64 `json:"dividendYield"`
}
