package models

// BottomFishing is the advisory's dip-buying recommendation block.
type BottomFishing struct {
	Recommended bool    `json:"recommended"`
	TargetPrice float64 `json:"targetPrice"`
	Timing      string  `json:"timing"`
	Rationale   string  `json:"rationale"`
}

// PriceTarget is the advisory's upside projection block.
type PriceTarget struct {
	ExpectedRise float64 `json:"expectedRise"`
	TargetPrice  float64 `json:"targetPrice"`
	Timeframe    string  `json:"timeframe"`
	ExitStrategy string  `json:"exitStrategy"`
}

// AIAnalysis is the structured advisory payload returned by the
// text-generation service. It is schema-validated on arrival; a fixed
// neutral fallback is substituted when validation fails.
type AIAnalysis struct {
	Score         float64       `json:"score"`
	Prediction    string        `json:"prediction"`
	Confidence    float64       `json:"confidence"`
	Reasons       []string      `json:"reasons"`
	BottomFishing BottomFishing `json:"bottomFishing"`
	PriceTarget   PriceTarget   `json:"priceTarget"`
	RiskFactors   []string      `json:"riskFactors"`
}

// StockSnapshot is the client-supplied quote context accepted by the
// advisory endpoint.
type StockSnapshot struct {
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"currentPrice"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	SharpeRatio   float64 `json:"sharpeRatio"`
	Trend         Trend   `json:"trend"`
}
