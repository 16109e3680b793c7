package coingecko

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"
)

// OriginError represents a non-success response from the origin API.
type OriginError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *OriginError) Error() string {
	return fmt.Sprintf("coingecko api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *OriginError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// doRequest performs a GET against the given path-with-query and returns the
// raw response body.
func (c *Client) doRequest(ctx context.Context, pathQuery string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &OriginError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// Fetch performs a GET with the client's retry policy and returns the raw
// payload. Only 5xx and 429 responses are retried.
func (c *Client) Fetch(ctx context.Context, pathQuery string) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", pathQuery,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := c.doRequest(ctx, pathQuery)
		if err == nil {
			return body, nil
		}

		lastErr = err

		originErr, ok := err.(*OriginError)
		if !ok || !originErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// Catalog fetches the raw coin list payload that backs the asset registry.
func (c *Client) Catalog(ctx context.Context) ([]byte, error) {
	return c.Fetch(ctx, c.withKey("/coins/list"))
}

// Ping fetches the raw origin health-check payload.
func (c *Client) Ping(ctx context.Context) ([]byte, error) {
	return c.Fetch(ctx, "/ping")
}

// withKey appends the demo API key parameter to a bare path.
func (c *Client) withKey(path string) string {
	if c.apiKey == "" {
		return path
	}
	return path + "?x_cg_demo_api_key=" + c.apiKey
}
