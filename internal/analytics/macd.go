package analytics

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"github.com/stockpulse/stockpulse-go/internal/models"
)

const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
)

// macdMinPoints is the shortest close series the 12/26/9 MACD can be
// computed from.
const macdMinPoints = macdSlowPeriod + macdSignalPeriod

// MACDFromCloses computes a 12/26/9 MACD from a close series and classifies
// the latest reading. It backs the indicator endpoint when the provider does
// not supply precomputed MACD values (demo mode). Too-short series yield nil.
func MACDFromCloses(closes []float64) *models.MACDSignal {
	if len(closes) < macdMinPoints {
		return nil
	}

	macdIndicator := trend.NewMacdWithPeriod[float64](macdFastPeriod, macdSlowPeriod, macdSignalPeriod)
	macdLine, signalLine := macdIndicator.Compute(helper.SliceToChan(closes))
	macdValues := helper.ChanToSlice(macdLine)
	signalValues := helper.ChanToSlice(signalLine)

	if len(macdValues) == 0 || len(signalValues) == 0 {
		return nil
	}

	macd := Round2(macdValues[len(macdValues)-1])
	signal := Round2(signalValues[len(signalValues)-1])
	histogram := Round2(macd - signal)

	return &models.MACDSignal{
		MACD:      macd,
		Signal:    signal,
		Histogram: histogram,
		Trend:     ClassifyMACD(macd, signal, histogram),
	}
}
