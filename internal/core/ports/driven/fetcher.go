package driven

import "context"

// Fetcher retrieves raw page content from the portal.
// Implementations are expected to rate-limit and retry internally and
// to return an error wrapping domain.ErrFetch on network or HTTP
// failure.
type Fetcher interface {
	// Get fetches the URL and returns the response body.
	Get(ctx context.Context, url string) ([]byte, error)
}
