// Package advisor talks to the external text-generation service and turns
// its chat-style replies into validated AIAnalysis values. The service is
// opaque: only the request/response contract and the reply schema are
// trusted, and never blindly.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/utils"
)

const advisorProviderName = "advisor-provider"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client is the chat-completion HTTP client.
type Client struct {
	baseURL      string
	apiKey       string
	defaultModel string
	httpClient   *http.Client
}

// NewClient creates an advisory client from config.
func NewClient(cfg config.AdvisorConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		defaultModel: cfg.Model,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// DefaultModel returns the configured model identifier.
func (c *Client) DefaultModel() string {
	return c.defaultModel
}

// Complete sends a system/user prompt pair and returns the raw completion
// content of the first choice.
func (c *Client) Complete(ctx context.Context, system, user, model string) (string, error) {
	if c.apiKey == "" {
		return "", utils.NewUpstreamError(advisorProviderName, "no API key configured")
	}
	if model == "" {
		model = c.defaultModel
	}

	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", utils.NewUpstreamErrorf(advisorProviderName, "failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", utils.NewUpstreamErrorf(advisorProviderName, "failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", utils.NewUpstreamErrorf(advisorProviderName, "request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", utils.NewUpstreamErrorf(advisorProviderName, "failed to read response body: %v", err)
	}
	if resp.StatusCode >= 400 {
		return "", utils.NewUpstreamErrorf(advisorProviderName, "status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", utils.NewShapeErrorf(advisorProviderName, "failed to decode completion: %v", err)
	}
	if len(completion.Choices) == 0 {
		return "", utils.NewShapeError(advisorProviderName, "empty choices")
	}
	return completion.Choices[0].Message.Content, nil
}
