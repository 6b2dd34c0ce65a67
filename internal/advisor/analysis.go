package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stockpulse/stockpulse-go/internal/analytics"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

// Enrichment is the optional context merged into the prompt. Every field may
// be nil: a failed enrichment source narrows the prompt, it never blocks it.
type Enrichment struct {
	RSI          *models.TechnicalSignal
	MACD         *models.MACDSignal
	Fundamentals *models.Fundamentals
	NewsOverall  *models.Sentiment
	NewsScore    float64
	NewsCount    int
}

// BuildPrompt assembles the deterministic system/user prompt pair for one
// symbol. The same inputs always produce the same prompt text.
func BuildPrompt(symbol string, stock models.StockSnapshot, enrich Enrichment) (string, string) {
	system := "You are an equity analyst. Reply with a single JSON object and no other text. " +
		"The object must contain: score (number 1-10), prediction (\"UP\" or \"DOWN\"), " +
		"confidence (number 1-100), reasons (array of 3 strings), " +
		"bottomFishing {recommended, targetPrice, timing, rationale}, " +
		"priceTarget {expectedRise, targetPrice, timeframe, exitStrategy}, " +
		"riskFactors (array of 3 strings)."

	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate %s (%s).\n", symbol, stock.Name)
	fmt.Fprintf(&b, "Current price: %.2f, change: %.2f%%, volume: %d.\n", stock.CurrentPrice, stock.ChangePercent, stock.Volume)
	fmt.Fprintf(&b, "Sharpe ratio: %.2f, trend: %s.\n", stock.SharpeRatio, stock.Trend)

	if enrich.RSI != nil {
		fmt.Fprintf(&b, "RSI(14): %.2f (%s).\n", enrich.RSI.Value, enrich.RSI.Signal)
	}
	if enrich.MACD != nil {
		fmt.Fprintf(&b, "MACD: %.2f, signal: %.2f, histogram: %.2f (%s).\n",
			enrich.MACD.MACD, enrich.MACD.Signal, enrich.MACD.Histogram, enrich.MACD.Trend)
	}
	if enrich.Fundamentals != nil {
		fmt.Fprintf(&b, "Fundamentals: P/E %.2f, EPS %.2f.\n", enrich.Fundamentals.PERatio, enrich.Fundamentals.EPS)
	}
	if enrich.NewsOverall != nil {
		fmt.Fprintf(&b, "News sentiment across %d articles: %s (%.2f).\n", enrich.NewsCount, *enrich.NewsOverall, enrich.NewsScore)
	}
	b.WriteString("Give your assessment as the JSON object described.")

	return system, b.String()
}

// StripFences removes markdown code-fence markers from a completion and
// isolates the outermost JSON object. Providers regularly wrap JSON replies
// in ```json fences even when told not to.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

type rawAnalysis struct {
	Score         *float64              `json:"score"`
	Prediction    *string               `json:"prediction"`
	Confidence    *float64              `json:"confidence"`
	Reasons       []string              `json:"reasons"`
	BottomFishing *models.BottomFishing `json:"bottomFishing"`
	PriceTarget   *models.PriceTarget   `json:"priceTarget"`
	RiskFactors   []string              `json:"riskFactors"`
}

// ParseAnalysis decodes a completion into an AIAnalysis and validates it
// against the schema: score numeric in [1,10], reasons and riskFactors
// arrays, prediction, bottomFishing and priceTarget present. Any violation
// yields an AdvisoryParseError; callers substitute the fallback.
func ParseAnalysis(raw string) (*models.AIAnalysis, error) {
	cleaned := StripFences(raw)

	var parsed rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, utils.NewAdvisoryParseError(fmt.Sprintf("not valid JSON: %v", err))
	}

	if parsed.Score == nil || *parsed.Score < 1 || *parsed.Score > 10 {
		return nil, utils.NewAdvisoryParseError("score missing or out of [1,10]")
	}
	if parsed.Prediction == nil || *parsed.Prediction == "" {
		return nil, utils.NewAdvisoryParseError("prediction missing")
	}
	if parsed.Reasons == nil {
		return nil, utils.NewAdvisoryParseError("reasons missing")
	}
	if parsed.RiskFactors == nil {
		return nil, utils.NewAdvisoryParseError("riskFactors missing")
	}
	if parsed.BottomFishing == nil {
		return nil, utils.NewAdvisoryParseError("bottomFishing missing")
	}
	if parsed.PriceTarget == nil {
		return nil, utils.NewAdvisoryParseError("priceTarget missing")
	}

	confidence := 50.0
	if parsed.Confidence != nil {
		confidence = *parsed.Confidence
		if confidence < 1 {
			confidence = 1
		}
		if confidence > 100 {
			confidence = 100
		}
	}

	return &models.AIAnalysis{
		Score:         *parsed.Score,
		Prediction:    strings.ToUpper(*parsed.Prediction),
		Confidence:    confidence,
		Reasons:       parsed.Reasons,
		BottomFishing: *parsed.BottomFishing,
		PriceTarget:   *parsed.PriceTarget,
		RiskFactors:   parsed.RiskFactors,
	}, nil
}

// FallbackAnalysis is the fixed neutral analysis substituted whenever the
// advisory reply cannot be used. The entry target sits at 95% of the
// current price.
func FallbackAnalysis(currentPrice float64) *models.AIAnalysis {
	return &models.AIAnalysis{
		Score:      5,
		Prediction: "HOLD",
		Confidence: 50,
		Reasons: []string{
			"Advisory service was unavailable; defaulting to a neutral stance",
			"No directional edge can be claimed without a validated analysis",
			"Re-run the analysis once the advisory service responds",
		},
		BottomFishing: models.BottomFishing{
			Recommended: false,
			TargetPrice: analytics.Round2(currentPrice * 0.95),
			Timing:      "Wait for a confirmed support level",
			Rationale:   "Neutral fallback: no validated signal available",
		},
		PriceTarget: models.PriceTarget{
			ExpectedRise: 0,
			TargetPrice:  analytics.Round2(currentPrice),
			Timeframe:    "3-6 months",
			ExitStrategy: "Reassess after the next earnings report",
		},
		RiskFactors: []string{
			"Analysis generated without advisory input",
			"Market conditions may have changed since the last quote",
			"Derived metrics alone do not capture company-specific risk",
		},
	}
}
