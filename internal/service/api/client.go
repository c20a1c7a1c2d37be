// Package api holds the shared HTTP requester for the liver catalog backend.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/comisapo/liverapp-go/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxResponseBytes = 16 << 20
	baseRetryDelay   = 300 * time.Millisecond
	retryJitter      = 200 * time.Millisecond
)

// Requester abstracts the transport so clients can be tested against fakes.
type Requester interface {
	Get(ctx context.Context, path string) ([]byte, error)
	PostJSON(ctx context.Context, path string, body []byte) (int, []byte, error)
}

type Client struct {
	httpClient    *http.Client
	baseURL       string
	retryAttempts int
	logger        *zap.Logger
}

// NewClient validates the base URL up front; a malformed one is a
// configuration fault and should never surface at request time.
func NewClient(httpClient *http.Client, baseURL string, retryAttempts int, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.NewConfigError(fmt.Sprintf("invalid base URL: %q", baseURL), "base_url")
	}
	if retryAttempts < 0 {
		retryAttempts = 0
	}
	return &Client{
		httpClient:    httpClient,
		baseURL:       u.String(),
		retryAttempts: retryAttempts,
		logger:        logger,
	}, nil
}

// Get fetches a path, retrying transport and 5xx failures with backoff.
// Non-200 terminal responses map to an APIError carrying the status.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	requestID := uuid.NewString()
	var lastErr error

	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.retryAttempts && ctx.Err() == nil {
				delay := c.computeDelay(attempt)
				c.logger.Warn("Request failed, retrying",
					zap.String("request_id", requestID),
					zap.String("path", path),
					zap.Error(err),
					zap.Int("attempt", attempt+1),
					zap.Duration("delay", delay),
				)
				time.Sleep(delay)
				continue
			}
			break
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 && attempt < c.retryAttempts {
			c.logger.Warn("Server error, retrying",
				zap.String("request_id", requestID),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			time.Sleep(c.computeDelay(attempt))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, errors.NewAPIError(fmt.Sprintf("HTTP Error: %d", resp.StatusCode), resp.StatusCode, map[string]any{
				"path":       path,
				"request_id": requestID,
			})
		}

		c.logger.Debug("Request completed",
			zap.String("request_id", requestID),
			zap.String("path", path),
			zap.Int("bytes", len(body)),
		)
		return body, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("request failed: %s", path)
}

// PostJSON sends a JSON body and returns status and body without mapping
// non-200 to an error; submission responses carry meaning on failure codes
// (notably 429) and the caller decodes them.
func (c *Client) PostJSON(ctx context.Context, path string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}

func (c *Client) computeDelay(attempt int) time.Duration {
	base := baseRetryDelay * time.Duration(math.Pow(2, float64(attempt)))
	jitter := time.Duration(rand.Float64() * float64(retryJitter))
	return base + jitter
}
