package repositories

import (
	"context"
	"time"
)

// CachedResponse is a stored HTTP response body and status for an
// idempotency key.
type CachedResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       []byte `json:"body"`
}

// IdempotencyRepository stores responses keyed by client idempotency keys so
// that replays of the same request return the original outcome.
type IdempotencyRepository interface {
	// Get returns the cached response for key, or nil on a cache miss.
	Get(ctx context.Context, key string) (*CachedResponse, error)

	// Save stores the response for key with the given TTL.
	Save(ctx context.Context, key string, response CachedResponse, ttl time.Duration) error
}
