package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"smarttable/internal/model"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPClient fetches JSON records over HTTP.
type HTTPClient struct {
	httpClient *http.Client
	userAgent  string
}

// NewHTTPClient creates a client; a zero timeout uses the default.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "smarttable",
	}
}

// Fetch retrieves the records served at url.
func (c *HTTPClient) Fetch(ctx context.Context, url string) ([]model.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	recs, err := ReadJSON(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return recs, nil
}

// Provider binds Fetch to url.
func (c *HTTPClient) Provider(url string) model.Provider {
	return func(ctx context.Context) ([]model.Record, error) {
		return c.Fetch(ctx, url)
	}
}
