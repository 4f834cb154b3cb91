package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the request header naming a retry-safe request
	IdempotencyKeyHeader = "Idempotency-Key"
	// MaxIdempotencyKeyLength bounds client supplied keys
	MaxIdempotencyKeyLength = 255
	// DefaultIdempotencyTTL is used when no TTL is configured
	DefaultIdempotencyTTL = 24 * time.Hour
)

// Idempotency rejects a repeated Idempotency-Key on the same path with 409
// ERR_DUPLICATE_REQUEST. Requests without the header pass through. A key is
// released again when the request ends in a server error or a panic so the
// client may retry it. If the store is unavailable the request proceeds unprotected.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || store == nil {
			c.Next()
			return
		}
		requestID := c.GetString(RequestIDContextKey)
		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", requestID))
			return
		}

		ctx := c.Request.Context()
		log := logger.L(ctx)
		scoped := c.Request.Method + " " + c.Request.URL.Path + " " + key

		isNew, err := store.MarkProcessed(ctx, scoped, ttl)
		if err != nil {
			log.Warn("Idempotency store unavailable, processing without dedup",
				zap.String("idempotency_key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !isNew {
			log.Info("Duplicate request rejected", zap.String("idempotency_key", key))
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest,
				"A request with this Idempotency-Key was already processed",
				requestID,
			))
			return
		}

		defer func() {
			if r := recover(); r != nil {
				releaseKey(ctx, store, scoped, key)
				panic(r)
			}
		}()

		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			releaseKey(ctx, store, scoped, key)
		}
	}
}

// releaseKey frees a key whose request failed. It runs detached from the
// request context, which may already be cancelled.
func releaseKey(ctx context.Context, store shared.IdempotencyStore, scoped, key string) {
	if err := store.Release(context.WithoutCancel(ctx), scoped); err != nil {
		logger.L(ctx).Warn("Failed to release idempotency key",
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
	}
}
