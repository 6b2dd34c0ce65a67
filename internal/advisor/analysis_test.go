package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/models"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

const validReply = `{
	"score": 7.5,
	"prediction": "up",
	"confidence": 80,
	"reasons": ["solid earnings", "sector momentum", "buyback program"],
	"bottomFishing": {"recommended": true, "targetPrice": 180.5, "timing": "next pullback", "rationale": "support at 180"},
	"priceTarget": {"expectedRise": 8.2, "targetPrice": 205, "timeframe": "6 months", "exitStrategy": "trail stop"},
	"riskFactors": ["rate risk", "fx exposure", "valuation"]
}`

func TestParseAnalysis_Valid(t *testing.T) {
	analysis, err := ParseAnalysis(validReply)
	require.NoError(t, err)
	assert.Equal(t, 7.5, analysis.Score)
	assert.Equal(t, "UP", analysis.Prediction)
	assert.Equal(t, 80.0, analysis.Confidence)
	assert.Len(t, analysis.Reasons, 3)
	assert.True(t, analysis.BottomFishing.Recommended)
	assert.Equal(t, 205.0, analysis.PriceTarget.TargetPrice)
}

func TestParseAnalysis_MarkdownFenced(t *testing.T) {
	fenced := "```json\n" + validReply + "\n```"
	analysis, err := ParseAnalysis(fenced)
	require.NoError(t, err)
	assert.Equal(t, 7.5, analysis.Score)
}

func TestParseAnalysis_SurroundingProse(t *testing.T) {
	wrapped := "Here is my assessment:\n" + validReply + "\nLet me know if you need more."
	analysis, err := ParseAnalysis(wrapped)
	require.NoError(t, err)
	assert.Equal(t, "UP", analysis.Prediction)
}

func TestParseAnalysis_Violations(t *testing.T) {
	mutate := func(change func(m map[string]interface{})) string {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(validReply), &m))
		change(m)
		out, err := json.Marshal(m)
		require.NoError(t, err)
		return string(out)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "the outlook is positive overall"},
		{"empty", ""},
		{"score missing", mutate(func(m map[string]interface{}) { delete(m, "score") })},
		{"score out of range", mutate(func(m map[string]interface{}) { m["score"] = 12 })},
		{"score wrong type", mutate(func(m map[string]interface{}) { m["score"] = "seven" })},
		{"prediction missing", mutate(func(m map[string]interface{}) { delete(m, "prediction") })},
		{"reasons missing", mutate(func(m map[string]interface{}) { delete(m, "reasons") })},
		{"riskFactors missing", mutate(func(m map[string]interface{}) { delete(m, "riskFactors") })},
		{"bottomFishing missing", mutate(func(m map[string]interface{}) { delete(m, "bottomFishing") })},
		{"priceTarget missing", mutate(func(m map[string]interface{}) { delete(m, "priceTarget") })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnalysis(tt.raw)
			require.Error(t, err)
			var parseErr *utils.AdvisoryParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestParseAnalysis_ConfidenceClamped(t *testing.T) {
	raw := strings.Replace(validReply, `"confidence": 80`, `"confidence": 250`, 1)
	analysis, err := ParseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, 100.0, analysis.Confidence)
}

func TestFallbackAnalysis(t *testing.T) {
	fallback := FallbackAnalysis(200)
	assert.Equal(t, 5.0, fallback.Score)
	assert.Equal(t, "HOLD", fallback.Prediction)
	assert.Equal(t, 190.0, fallback.BottomFishing.TargetPrice)
	assert.Len(t, fallback.Reasons, 3)
	assert.Len(t, fallback.RiskFactors, 3)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences(`{"a":1}`))
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	stock := models.StockSnapshot{Name: "Apple Inc.", CurrentPrice: 189.46, ChangePercent: 1.25, Volume: 52_000_000, SharpeRatio: 1.1, Trend: models.TrendBullish}
	overall := models.SentimentBullish
	enrich := Enrichment{
		RSI:         &models.TechnicalSignal{Value: 64.2, Signal: models.RSIBullish},
		NewsOverall: &overall,
		NewsScore:   0.42,
		NewsCount:   6,
	}

	sys1, user1 := BuildPrompt("AAPL", stock, enrich)
	sys2, user2 := BuildPrompt("AAPL", stock, enrich)
	assert.Equal(t, sys1, sys2)
	assert.Equal(t, user1, user2)
	assert.Contains(t, user1, "RSI(14): 64.20")
	assert.Contains(t, user1, "across 6 articles")
	assert.NotContains(t, user1, "MACD")
}

func TestClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": validReply}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(config.AdvisorConfig{BaseURL: server.URL, APIKey: "test-key", Model: "gpt-4o-mini", Timeout: 5})
	content, err := client.Complete(context.Background(), "system", "user", "")
	require.NoError(t, err)
	assert.Equal(t, validReply, content)
}

func TestClient_NoAPIKey(t *testing.T) {
	client := NewClient(config.AdvisorConfig{BaseURL: "http://localhost:0", Model: "gpt-4o-mini"})
	_, err := client.Complete(context.Background(), "s", "u", "")
	require.Error(t, err)
	var upstreamErr *utils.UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
}
