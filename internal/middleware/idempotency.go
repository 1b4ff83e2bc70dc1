package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/quickpay/quickpay_backend/internal/core/ports/repositories"
)

// IdempotencyKeyHeader is the request header clients set to make a POST safe
// to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

// bodyRecorder tees the response body so a successful response can be cached.
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays cached responses for repeated Idempotency-Key values.
// Requests without the header pass through untouched. Only 2xx responses are
// cached; a failed attempt may be retried with the same key.
func Idempotency(repo portsrepo.IdempotencyRepository, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())

		cached, err := repo.Get(c.Request.Context(), key)
		if err != nil {
			// Cache trouble must not block the transfer itself.
			logger.Error("Idempotency cache lookup failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		if cached != nil {
			logger.Info("Replaying cached response", slog.String("key", key))
			c.Header("X-Idempotent-Replay", "true")
			c.Data(cached.StatusCode, "application/json", cached.Body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}

		saveErr := repo.Save(c.Request.Context(), key, portsrepo.CachedResponse{
			StatusCode: status,
			Body:       recorder.body.Bytes(),
		}, ttl)
		if saveErr != nil {
			logger.Error("Failed to cache idempotent response", slog.String("key", key), slog.String("error", saveErr.Error()))
		}
	}
}
