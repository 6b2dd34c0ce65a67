package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/stockpulse/stockpulse-go/internal/models"
)

const (
	// DefaultRSIPeriod is the lookback used when callers do not override it.
	DefaultRSIPeriod = 14

	// dailyRiskFree is the constant daily risk-free rate used in the Sharpe
	// ratio, roughly a 5% annual rate.
	dailyRiskFree = 0.0002

	// tradingDaysPerYear annualizes daily Sharpe via sqrt scaling.
	tradingDaysPerYear = 252
)

// Round rounds v to the given number of decimal places. All monetary and
// ratio outputs go through this single helper so results are reproducible
// bit-for-bit across call sites.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return Round(v, 2)
}

// RSI computes the Relative Strength Index over closes using Wilder's
// smoothing. The average gain/loss is seeded with the simple mean of the
// first period differences, then each subsequent difference is folded in as
// avg = (avg*(period-1) + new) / period.
//
// A series shorter than period+1 closes yields nil: the indicator is
// unavailable, not an error. A series with no observed loss yields exactly
// 100.
func RSI(closes []float64, period int) *models.TechnicalSignal {
	if period < 1 || len(closes) < period+1 {
		return nil
	}

	gains := make([]float64, 0, len(closes)-1)
	losses := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		diff := closes[i] - closes[i-1]
		if diff > 0 {
			gains = append(gains, diff)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -diff)
		}
	}

	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
	}

	value := 100.0
	if avgLoss != 0 {
		rs := avgGain / avgLoss
		value = 100 - 100/(1+rs)
	}
	value = Round2(value)

	return &models.TechnicalSignal{
		Value:  value,
		Signal: ClassifyRSI(value),
	}
}

// ClassifyRSI maps an RSI value onto its signal band. The bands are
// evaluated in precedence order and the 70/60 vs 30/40 asymmetry is
// intentional.
func ClassifyRSI(value float64) models.RSISignal {
	switch {
	case value >= 70:
		return models.RSIOverbought
	case value >= 60:
		return models.RSIBullish
	case value <= 30:
		return models.RSIOversold
	case value <= 40:
		return models.RSIBearish
	default:
		return models.RSINeutral
	}
}

// SharpeRatio computes the annualized Sharpe ratio of the daily return
// series derived from prices. The standard deviation is the population form
// (divide by N). A flat series or fewer than two prices is defined as zero,
// not an error.
func SharpeRatio(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			return 0
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))

	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		return 0
	}

	sharpe := (mean - dailyRiskFree) / stdDev * math.Sqrt(tradingDaysPerYear)
	return Round2(sharpe)
}

// TrendFromSharpe classifies a Sharpe ratio into a trend. The boundaries are
// strict: exactly 0.5 and exactly 0 are both neutral.
func TrendFromSharpe(sharpe float64) models.Trend {
	switch {
	case sharpe > 0.5:
		return models.TrendBullish
	case sharpe < 0:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}

// ClassifyMACD derives a trend from provider-computed MACD values. Bullish
// requires the histogram positive and the MACD line above its signal line;
// the bearish case mirrors it.
func ClassifyMACD(macd, signal, histogram float64) models.Sentiment {
	switch {
	case histogram > 0 && macd > signal:
		return models.SentimentBullish
	case histogram < 0 && macd < signal:
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}
