package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portsrepo "github.com/quickpay/quickpay_backend/internal/core/ports/repositories"
	"github.com/quickpay/quickpay_backend/internal/middleware"
)

// memoryIdempotencyRepo is an in-memory stand-in for the Redis cache.
type memoryIdempotencyRepo struct {
	store map[string]portsrepo.CachedResponse
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{store: map[string]portsrepo.CachedResponse{}}
}

func (r *memoryIdempotencyRepo) Get(ctx context.Context, key string) (*portsrepo.CachedResponse, error) {
	resp, ok := r.store[key]
	if !ok {
		return nil, nil
	}
	return &resp, nil
}

func (r *memoryIdempotencyRepo) Save(ctx context.Context, key string, response portsrepo.CachedResponse, ttl time.Duration) error {
	r.store[key] = response
	return nil
}

func newTestRouter(repo portsrepo.IdempotencyRepository, handlerCalls *atomic.Int64, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/transfers", middleware.Idempotency(repo, time.Minute), func(c *gin.Context) {
		handlerCalls.Add(1)
		c.JSON(status, gin.H{"reference": "TXN-1"})
	})
	return r
}

func doPost(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/transfers", nil)
	if key != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	var calls atomic.Int64
	r := newTestRouter(repo, &calls, http.StatusCreated)

	first := doPost(r, "key-1")
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, int64(1), calls.Load())

	second := doPost(r, "key-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotent-Replay"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	// The handler did not run again.
	assert.Equal(t, int64(1), calls.Load())
}

func TestIdempotency_DistinctKeysRunSeparately(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	var calls atomic.Int64
	r := newTestRouter(repo, &calls, http.StatusCreated)

	doPost(r, "key-1")
	doPost(r, "key-2")

	assert.Equal(t, int64(2), calls.Load())
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	var calls atomic.Int64
	r := newTestRouter(repo, &calls, http.StatusCreated)

	doPost(r, "")
	doPost(r, "")

	assert.Equal(t, int64(2), calls.Load())
	assert.Empty(t, repo.store)
}

func TestIdempotency_ErrorResponsesNotCached(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	var calls atomic.Int64
	r := newTestRouter(repo, &calls, http.StatusUnprocessableEntity)

	doPost(r, "key-1")
	doPost(r, "key-1")

	// A rejected attempt may be retried with the same key.
	assert.Equal(t, int64(2), calls.Load())
	assert.Empty(t, repo.store)
}
