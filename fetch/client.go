// Package fetch retrieves web pages politely: requests are rate limited,
// retried with exponential backoff on transient failures, decoded to UTF-8
// from whatever charset the server declares, and optionally served from a
// local response cache.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// Config controls client behavior
type Config struct {
	// Timeout bounds each individual request attempt
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after a transient
	// failure (network error, 5xx, or 429)
	MaxRetries int

	// RetryBaseDelay is the first backoff delay; it doubles per attempt
	RetryBaseDelay time.Duration

	// RequestsPerSecond throttles outgoing requests; zero disables
	// throttling
	RequestsPerSecond float64

	// UserAgent is sent with every request
	UserAgent string
}

// DefaultConfig returns the standard client configuration
func DefaultConfig() Config {
	return Config{
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		RetryBaseDelay:    time.Second,
		RequestsPerSecond: 1.0,
		UserAgent:         "marklab/1.0",
	}
}

// StatusError reports a non-success HTTP status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client fetches pages with throttling, retries, and optional caching
type Client struct {
	http    *http.Client
	config  Config
	limiter *rate.Limiter
	cache   *Cache
}

// NewClient creates a client with the given configuration
func NewClient(config Config) *Client {
	c := &Client{
		http:   &http.Client{Timeout: config.Timeout},
		config: config,
	}
	if config.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}
	return c
}

// WithCache attaches a response cache; fetched pages are stored and future
// gets within the cache TTL skip the network entirely.
func (c *Client) WithCache(cache *Cache) *Client {
	c.cache = cache
	return c
}

// Get fetches the page at url and returns its body decoded to UTF-8
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	if c.cache != nil {
		if body, ok, err := c.cache.Get(ctx, url); err == nil && ok {
			return body, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.config.RetryBaseDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		body, retryable, err := c.fetchOnce(ctx, url)
		if err == nil {
			if c.cache != nil {
				// Cache failures never fail the fetch
				_ = c.cache.Set(ctx, url, body)
			}
			return body, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}

	return "", fmt.Errorf("fetching %s after %d attempts: %w", url, c.config.MaxRetries+1, lastErr)
}

// fetchOnce performs a single request attempt. The second return value
// reports whether the failure is worth retrying.
func (c *Client) fetchOnce(ctx context.Context, url string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{URL: url, StatusCode: resp.StatusCode}
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return "", retryable, statusErr
	}

	// Decode whatever charset the server declared into UTF-8
	decoded, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", false, fmt.Errorf("detecting charset for %s: %w", url, err)
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", true, fmt.Errorf("reading body of %s: %w", url, err)
	}

	return string(body), false, nil
}
