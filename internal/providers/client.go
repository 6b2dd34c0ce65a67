// Package providers contains the typed adapters that turn each third-party
// JSON shape into internal record types. Every adapter validates response
// shape defensively and reports failures as typed errors so callers can
// decide between cached reuse, demo synthesis, or a not-found response.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stockpulse/stockpulse-go/internal/utils"
)

// errNotFound marks a 404 from a provider; adapters convert it into a typed
// NotFoundError carrying the symbol.
var errNotFound = errors.New("provider returned 404")

type httpClient struct {
	name    string
	baseURL string
	client  *http.Client
}

func newHTTPClient(name, baseURL string, timeoutSeconds int) httpClient {
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return httpClient{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type providerErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// getJSON performs a GET against the provider and decodes the body into
// result. Transport failures and non-2xx statuses come back as
// UpstreamError (404 as errNotFound), undecodable bodies as ShapeError.
func (c *httpClient) getJSON(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return utils.NewUpstreamErrorf(c.name, "failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "StockPulse/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return utils.NewUpstreamErrorf(c.name, "request failed: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			// nothing actionable; the response was already consumed
			_ = err
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return utils.NewUpstreamErrorf(c.name, "failed to read response body: %v", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode >= 400 {
		var errBody providerErrorBody
		if err := json.Unmarshal(body, &errBody); err == nil && errBody.Error != "" {
			return utils.NewUpstreamErrorf(c.name, "status %d: %s", resp.StatusCode, errBody.Error)
		}
		return utils.NewUpstreamErrorf(c.name, "status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return utils.NewShapeErrorf(c.name, "failed to decode response: %v", err)
	}
	return nil
}
