package cache

import (
	"context"
	"time"
)

// Cache is the key/value contract the application relies on. Values are
// stored as JSON and expire after their ttl.
type Cache interface {
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}
