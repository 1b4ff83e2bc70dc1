package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	portsrepo "github.com/quickpay/quickpay_backend/internal/core/ports/repositories"
)

const keyPrefix = "idempotency:"

// IdempotencyRepository stores transfer responses keyed by client idempotency
// keys so replays return the original outcome instead of re-running the
// transfer.
type IdempotencyRepository struct {
	client *redis.Client
}

// NewIdempotencyRepository creates a repository backed by the given client.
func NewIdempotencyRepository(client *redis.Client) *IdempotencyRepository {
	return &IdempotencyRepository{client: client}
}

// Ensure IdempotencyRepository implements portsrepo.IdempotencyRepository
var _ portsrepo.IdempotencyRepository = (*IdempotencyRepository)(nil)

// Get returns the cached response for key, or nil on a cache miss.
func (r *IdempotencyRepository) Get(ctx context.Context, key string) (*portsrepo.CachedResponse, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	var resp portsrepo.CachedResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached response: %w", err)
	}
	return &resp, nil
}

// Save stores the response for key with the given TTL.
func (r *IdempotencyRepository) Save(ctx context.Context, key string, response portsrepo.CachedResponse, ttl time.Duration) error {
	bytes, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	return r.client.Set(ctx, keyPrefix+key, bytes, ttl).Err()
}
