package authcore

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lucasandr3/authcore/password"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newTestRedisWithServer(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// mockUserStore is a map-backed UserStore for engine tests. Not safe for
// concurrent use; the engine tests are sequential.
type mockUserStore struct {
	users map[string]*User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]*User)}
}

func (s *mockUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *mockUserStore) FindByID(_ context.Context, id string) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *mockUserStore) Save(_ context.Context, user *User) error {
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *mockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err == ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (s *mockUserStore) Stats(_ context.Context) (UserStats, error) {
	var stats UserStats
	for _, u := range s.users {
		stats.Total++
		if u.IsActive {
			stats.Active++
		}
		if u.EmailVerifiedAt != nil {
			stats.Verified++
		}
	}
	return stats, nil
}

type mockTokenStore struct {
	tokens map[string]*VerificationToken
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{tokens: make(map[string]*VerificationToken)}
}

func (s *mockTokenStore) FindByToken(_ context.Context, token string) (*VerificationToken, error) {
	t, ok := s.tokens[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *mockTokenStore) Save(_ context.Context, token *VerificationToken) error {
	copied := *token
	s.tokens[token.Token] = &copied
	return nil
}

func (s *mockTokenStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var removed int64
	for key, t := range s.tokens {
		if !now.Before(t.ExpiresAt) {
			delete(s.tokens, key)
			removed++
		}
	}
	return removed, nil
}

func (s *mockTokenStore) InvalidateAllForEmailAndType(_ context.Context, email, tokenType string, now time.Time) error {
	for _, t := range s.tokens {
		if t.Email == email && t.Type == tokenType && t.UsedAt == nil {
			used := now
			t.UsedAt = &used
		}
	}
	return nil
}

// expire backdates a stored token so validity tests do not sleep.
func (s *mockTokenStore) expire(token string) {
	if t, ok := s.tokens[token]; ok {
		t.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

type mockLogStore struct {
	entries []SecurityLog
}

func newMockLogStore() *mockLogStore {
	return &mockLogStore{}
}

func (s *mockLogStore) Append(_ context.Context, entry *SecurityLog) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *mockLogStore) FindByUser(_ context.Context, userID string, limit int) ([]SecurityLog, error) {
	return s.filter(limit, func(e SecurityLog) bool { return e.UserID == userID }), nil
}

func (s *mockLogStore) FindByEmail(_ context.Context, email string, limit int) ([]SecurityLog, error) {
	return s.filter(limit, func(e SecurityLog) bool { return e.Email == email }), nil
}

func (s *mockLogStore) FindByIP(_ context.Context, ip string, limit int) ([]SecurityLog, error) {
	return s.filter(limit, func(e SecurityLog) bool { return e.IP == ip }), nil
}

func (s *mockLogStore) CountFailedLogins(_ context.Context, email string, since time.Time) (int64, error) {
	var count int64
	for _, e := range s.entries {
		if e.Action == ActionFailedLogin && e.Email == email && !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *mockLogStore) Stats(_ context.Context, since time.Time) (map[string]ActionStats, error) {
	stats := make(map[string]ActionStats)
	for _, e := range s.entries {
		if e.CreatedAt.Before(since) {
			continue
		}
		agg := stats[e.Action]
		if e.Success {
			agg.Success++
		} else {
			agg.Failed++
		}
		stats[e.Action] = agg
	}
	return stats, nil
}

func (s *mockLogStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	kept := s.entries[:0]
	var removed int64
	for _, e := range s.entries {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

func (s *mockLogStore) filter(limit int, match func(SecurityLog) bool) []SecurityLog {
	var out []SecurityLog
	for _, e := range s.entries {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type testEnv struct {
	engine *Engine
	users  *mockUserStore
	tokens *mockTokenStore
	logs   *mockLogStore
	redis  *miniredis.Miniredis
}

func newTestEngine(t *testing.T) *testEnv {
	t.Helper()
	mr, client := newTestRedisWithServer(t)
	users := newMockUserStore()
	tokens := newMockTokenStore()
	logs := newMockLogStore()

	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("test-secret")

	hashCfg := password.DefaultConfig()
	hashCfg.Memory = 8 * 1024
	hashCfg.Time = 1

	engine, err := New().
		WithConfig(cfg).
		WithUserStore(users).
		WithVerificationTokenStore(tokens).
		WithSecurityLogStore(logs).
		WithRedis(client).
		WithPasswordConfig(hashCfg).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testEnv{engine: engine, users: users, tokens: tokens, logs: logs, redis: mr}
}

func registerTestUser(t *testing.T, env *testEnv, email, pass string) *User {
	t.Helper()
	user, err := env.engine.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: pass,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user
}

// drainAudit closes the dispatcher so queued events reach the log store
// before a test inspects it. Safe to call more than once.
func drainAudit(env *testEnv) {
	env.engine.Close()
}
