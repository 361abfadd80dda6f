// Package httpfetch downloads the open-data files the adapters decode.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/swiss-weather-today/internal/domain"
	"github.com/couchcryptid/swiss-weather-today/internal/observability"
	"github.com/couchcryptid/swiss-weather-today/internal/tabular"
)

// Client performs plain GET requests with a fixed timeout. It never retries.
type Client struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a fetch client.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchBytes returns the full response body of url. Transport failures and
// non-2xx statuses are domain Network errors carrying the URL (and status).
// source labels the request in logs and metrics.
func (c *Client) FetchBytes(ctx context.Context, source, url string) ([]byte, error) {
	start := time.Now()
	body, err := c.do(ctx, url)
	c.metrics.FetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeError).Inc()
		c.logger.Warn("fetch failed", "source", source, "url", url, "error", err)
		return nil, err
	}

	c.metrics.FetchRequests.WithLabelValues(source, observability.OutcomeSuccess).Inc()
	c.logger.Debug("fetched", "source", source, "url", url, "bytes", len(body))
	return body, nil
}

// FetchText is FetchBytes followed by UTF-8 decoding with a Latin-1 fallback.
func (c *Client) FetchText(ctx context.Context, source, url string) (string, error) {
	body, err := c.FetchBytes(ctx, source, url)
	if err != nil {
		return "", err
	}
	return tabular.DecodeText(body)
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NetworkError(url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, domain.NetworkError(url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NetworkError(url, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	return body, nil
}
