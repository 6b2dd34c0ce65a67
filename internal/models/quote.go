package models

// Trend classifies the direction implied by a quote's Sharpe ratio.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// DataSource marks whether a quote was built from a live provider response
// or synthesized as demo data.
type DataSource string

const (
	DataSourceLive DataSource = "live"
	DataSourceDemo DataSource = "demo"
)

// PriceBar represents one trading interval. Bars are chronological and
// immutable once produced by an adapter.
type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Quote is the derived snapshot for one symbol. Change and ChangePercent are
// computed from CurrentPrice and PreviousClose; Trend is a pure function of
// SharpeRatio.
type Quote struct {
	Symbol           string     `json:"symbol"`
	Name             string     `json:"name"`
	Currency         string     `json:"currency,omitempty"`
	CurrentPrice     float64    `json:"currentPrice"`
	PreviousClose    float64    `json:"previousClose"`
	Change           float64    `json:"change"`
	ChangePercent    float64    `json:"changePercent"`
	DayHigh          float64    `json:"dayHigh"`
	DayLow           float64    `json:"dayLow"`
	Volume           int64      `json:"volume"`
	FiftyTwoWeekHigh float64    `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64    `json:"fiftyTwoWeekLow"`
	OHLC             []PriceBar `json:"ohlc"`
	SharpeRatio      float64    `json:"sharpeRatio"`
	Trend            Trend      `json:"trend"`
	DataSource       DataSource `json:"dataSource"`
}

// ClosePrices returns the ordered close series of the quote's bars.
func (q *Quote) ClosePrices() []float64 {
	closes := make([]float64, len(q.OHLC))
	for i, bar := range q.OHLC {
		closes[i] = bar.Close
	}
	return closes
}

// MarketIndex is a condensed quote for one benchmark index.
type MarketIndex struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}
