package lawgokr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries; it doubles on
	// each attempt.
	RetryDelay = time.Second

	// DefaultRate is the proactive throttle in requests per second.
	// The portal has no published quota, so stay conservative.
	DefaultRate = 1.0

	// DefaultUserAgent identifies the crawler to the portal.
	DefaultUserAgent = "lawcrawl/1.0 (+https://github.com/roeum-labs/lawcrawl)"

	headerRetryAfter = "Retry-After"
)

// Ensure Client implements the fetcher port.
var _ driven.Fetcher = (*Client)(nil)

// Client is the portal HTTP client. All retrieval in the pipeline
// goes through it, so the token bucket below is the single place
// where request pacing is enforced.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	retries   int
}

// Option configures the client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRate sets the request rate in requests per second.
func WithRate(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithRetries sets the retry budget for transient failures.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient swaps the underlying http.Client. Useful for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient creates a portal client with conservative defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		limiter:   rate.NewLimiter(rate.Limit(DefaultRate), 1),
		userAgent: DefaultUserAgent,
		retries:   MaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches the URL and returns the response body. Transient
// failures (network errors, 5xx, 429) are retried with exponential
// backoff; anything still failing afterwards is wrapped in
// domain.ErrFetch.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	delay := RetryDelay
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		body, retryable, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("%w: get %s: %v", domain.ErrFetch, url, lastErr)
}

// do performs a single request. The second return reports whether the
// failure is worth retrying.
func (c *Client) do(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		// Honour Retry-After before the next attempt.
		if s := resp.Header.Get(headerRetryAfter); s != "" {
			if secs, perr := strconv.Atoi(s); perr == nil {
				select {
				case <-ctx.Done():
					return nil, false, ctx.Err()
				case <-time.After(time.Duration(secs) * time.Second):
				}
			}
		}
		return nil, true, fmt.Errorf("status %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
