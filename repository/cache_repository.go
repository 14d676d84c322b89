package repository

import (
	"context"
	"time"
)

// CacheRepository is a string key/value store with per-entry expiration.
// Get reports found=false on a miss; err is reserved for store failures.
type CacheRepository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Pinger is implemented by caches that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}
