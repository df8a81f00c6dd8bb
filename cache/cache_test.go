package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, New(NewRedisStore(client, "ac"), time.Hour)
}

func TestSetGetAndMiss(t *testing.T) {
	_, c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if _, err := c.Get(ctx, "absent"); !errors.Is(err, ErrMiss) {
		t.Fatalf("miss error = %v, want ErrMiss", err)
	}
}

func TestEntryExpires(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expired get error = %v, want ErrMiss", err)
	}
}

func TestClearAllKeepsForeignKeys(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "mine", "1", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mr.Set("other-app:key", "keep"); err != nil {
		t.Fatalf("seeding foreign key: %v", err)
	}

	if err := c.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if _, err := c.Get(ctx, "mine"); !errors.Is(err, ErrMiss) {
		t.Fatal("own key survived ClearAll")
	}
	if got, err := mr.Get("other-app:key"); err != nil || got != "keep" {
		t.Fatalf("foreign key = %q, %v after ClearAll", got, err)
	}
}

func TestBlacklistHelpers(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()

	listed, err := c.IsTokenBlacklisted(ctx, "tok")
	if err != nil || listed {
		t.Fatalf("fresh token blacklisted = %v, %v", listed, err)
	}
	if err := c.BlacklistToken(ctx, "tok", time.Minute); err != nil {
		t.Fatalf("BlacklistToken: %v", err)
	}
	listed, err = c.IsTokenBlacklisted(ctx, "tok")
	if err != nil || !listed {
		t.Fatalf("blacklisted = %v, %v", listed, err)
	}

	mr.FastForward(2 * time.Minute)
	listed, err = c.IsTokenBlacklisted(ctx, "tok")
	if err != nil || listed {
		t.Fatalf("blacklist survived its ttl: %v, %v", listed, err)
	}
}

func TestFailedLoginCounter(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()

	n, err := c.FailedLoginAttempts(ctx, "a@example.com")
	if err != nil || n != 0 {
		t.Fatalf("initial attempts = %d, %v", n, err)
	}
	for want := 1; want <= 3; want++ {
		n, err = c.IncrementFailedLogin(ctx, "a@example.com", time.Hour)
		if err != nil || n != want {
			t.Fatalf("increment -> %d, %v; want %d", n, err, want)
		}
	}
	if err := c.ResetFailedLogin(ctx, "a@example.com"); err != nil {
		t.Fatalf("ResetFailedLogin: %v", err)
	}
	if n, _ = c.FailedLoginAttempts(ctx, "a@example.com"); n != 0 {
		t.Fatalf("attempts after reset = %d", n)
	}

	// Each increment restarts the ttl; an idle window clears the count.
	if _, err := c.IncrementFailedLogin(ctx, "a@example.com", time.Hour); err != nil {
		t.Fatalf("IncrementFailedLogin: %v", err)
	}
	mr.FastForward(2 * time.Hour)
	if n, _ = c.FailedLoginAttempts(ctx, "a@example.com"); n != 0 {
		t.Fatalf("attempts after ttl = %d", n)
	}
}

func TestRateLimitCounter(t *testing.T) {
	_, c := newTestCache(t)
	ctx := context.Background()

	n, err := c.RateLimitCount(ctx, "203.0.113.1")
	if err != nil || n != 0 {
		t.Fatalf("initial count = %d, %v", n, err)
	}
	if err := c.SetRateLimitCount(ctx, "203.0.113.1", 4, time.Minute); err != nil {
		t.Fatalf("SetRateLimitCount: %v", err)
	}
	if n, _ = c.RateLimitCount(ctx, "203.0.113.1"); n != 4 {
		t.Fatalf("count = %d, want 4", n)
	}
}

func TestKeysAreHashed(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()

	if err := c.BlacklistToken(ctx, "raw-token-value", time.Minute); err != nil {
		t.Fatalf("BlacklistToken: %v", err)
	}
	for _, key := range mr.Keys() {
		if key == "ac:blacklist_raw-token-value" {
			t.Fatal("identifier stored unhashed")
		}
	}
}
