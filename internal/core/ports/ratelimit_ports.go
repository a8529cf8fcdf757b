package ports

import (
	"context"
	"time"
)

// RateLimiter admits or rejects one request for key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Limit() int
	Window() time.Duration
}
