package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

// Cache layers the authcore security helpers on a Store. All helper keys
// are purpose-tagged SHA-256 digests of the identifier.
type Cache struct {
	store      Store
	defaultTTL time.Duration
}

// New wraps store. defaultTTL applies to Set calls made with a zero ttl;
// it defaults to one hour.
func New(store Store, defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &Cache{store: store, defaultTTL: defaultTTL}
}

// DefaultTTL returns the fallback ttl applied to zero-ttl writes.
func (c *Cache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// hashKey builds "<purpose>_<hex sha256(identifier)>".
func hashKey(purpose, identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return purpose + "_" + hex.EncodeToString(sum[:])
}

// Set stores value under key. A zero ttl uses the cache default.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	return c.store.Set(ctx, key, value, ttl)
}

// Get returns the value stored under key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.store.Get(ctx, key)
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// ClearAll wipes every entry the cache owns.
func (c *Cache) ClearAll(ctx context.Context) error {
	return c.store.ClearAll(ctx)
}

// BlacklistToken marks token as revoked for ttl. Logout uses the token's
// remaining lifetime so the entry expires together with the token.
func (c *Cache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	return c.Set(ctx, hashKey("blacklist", token), "1", ttl)
}

// IsTokenBlacklisted reports whether token was revoked.
func (c *Cache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	_, err := c.store.Get(ctx, hashKey("blacklist", token))
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FailedLoginAttempts returns the current failure count for email. A miss
// counts as zero.
func (c *Cache) FailedLoginAttempts(ctx context.Context, email string) (int, error) {
	val, err := c.store.Get(ctx, hashKey("failed_login", email))
	if errors.Is(err, ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(val)
	if convErr != nil {
		return 0, nil
	}
	return n, nil
}

// SetFailedLoginAttempts overwrites the failure count for email.
func (c *Cache) SetFailedLoginAttempts(ctx context.Context, email string, attempts int, ttl time.Duration) error {
	return c.Set(ctx, hashKey("failed_login", email), strconv.Itoa(attempts), ttl)
}

// IncrementFailedLogin bumps the failure count for email and restarts its
// ttl. The read-modify-write is not atomic; concurrent failures for the
// same account may under-count, which only delays the lockout.
func (c *Cache) IncrementFailedLogin(ctx context.Context, email string, ttl time.Duration) (int, error) {
	attempts, err := c.FailedLoginAttempts(ctx, email)
	if err != nil {
		return 0, err
	}
	attempts++
	if err := c.SetFailedLoginAttempts(ctx, email, attempts, ttl); err != nil {
		return 0, err
	}
	return attempts, nil
}

// ResetFailedLogin clears the failure count for email.
func (c *Cache) ResetFailedLogin(ctx context.Context, email string) error {
	return c.store.Delete(ctx, hashKey("failed_login", email))
}

// RateLimitCount returns the stored request count for ip. A miss counts
// as zero.
func (c *Cache) RateLimitCount(ctx context.Context, ip string) (int, error) {
	val, err := c.store.Get(ctx, hashKey("rate_limit", ip))
	if errors.Is(err, ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(val)
	if convErr != nil {
		return 0, nil
	}
	return n, nil
}

// SetRateLimitCount overwrites the request count for ip with the window
// as its ttl.
func (c *Cache) SetRateLimitCount(ctx context.Context, ip string, attempts int, window time.Duration) error {
	return c.Set(ctx, hashKey("rate_limit", ip), strconv.Itoa(attempts), window)
}
