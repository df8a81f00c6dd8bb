package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the TTL key-value contract. Implementations must be safe for
// concurrent use. A ttl of zero means the implementation's default
// behavior (RedisStore treats it as no expiry).
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	ClearAll(ctx context.Context) error
}
