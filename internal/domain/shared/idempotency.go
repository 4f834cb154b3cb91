package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys of requests that were already accepted
type IdempotencyStore interface {
	// MarkProcessed records the key with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key so a failed request can be retried
	Release(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}
