// Package memory provides mutex-guarded in-process implementations of the
// authcore store interfaces, intended for tests and examples.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lucasandr3/authcore"
)

// UserStore keeps users in a map keyed by ID. Safe for concurrent use.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]authcore.User
}

// NewUserStore returns an empty store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]authcore.User)}
}

// FindByEmail implements authcore.UserStore. Matching is exact and
// case-sensitive.
func (s *UserStore) FindByEmail(_ context.Context, email string) (*authcore.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, authcore.ErrUserNotFound
}

// FindByID implements authcore.UserStore.
func (s *UserStore) FindByID(_ context.Context, id string) (*authcore.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, authcore.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// Save implements authcore.UserStore, inserting or replacing by ID.
func (s *UserStore) Save(_ context.Context, user *authcore.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *cloneUser(*user)
	return nil
}

// ExistsByEmail implements authcore.UserStore.
func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err == authcore.ErrUserNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Stats implements authcore.UserStore.
func (s *UserStore) Stats(_ context.Context) (authcore.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats authcore.UserStats
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

func cloneUser(u authcore.User) *authcore.User {
	out := u
	out.Permissions = append([]string(nil), u.Permissions...)
	if u.EmailVerifiedAt != nil {
		t := *u.EmailVerifiedAt
		out.EmailVerifiedAt = &t
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		out.LastLoginAt = &t
	}
	return &out
}

// TokenStore keeps verification tokens in a map keyed by the token
// string. Safe for concurrent use.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]authcore.VerificationToken
}

// NewTokenStore returns an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]authcore.VerificationToken)}
}

// FindByToken implements authcore.VerificationTokenStore.
func (s *TokenStore) FindByToken(_ context.Context, token string) (*authcore.VerificationToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, authcore.ErrTokenNotFound
	}
	return cloneToken(t), nil
}

// Save implements authcore.VerificationTokenStore.
func (s *TokenStore) Save(_ context.Context, token *authcore.VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = *cloneToken(*token)
	return nil
}

// DeleteExpired implements authcore.VerificationTokenStore.
func (s *TokenStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for key, t := range s.tokens {
		if !now.Before(t.ExpiresAt) {
			delete(s.tokens, key)
			removed++
		}
	}
	return removed, nil
}

// InvalidateAllForEmailAndType implements
// authcore.VerificationTokenStore.
func (s *TokenStore) InvalidateAllForEmailAndType(_ context.Context, email, tokenType string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.tokens {
		if t.Email == email && t.Type == tokenType && t.UsedAt == nil {
			used := now
			t.UsedAt = &used
			s.tokens[key] = t
		}
	}
	return nil
}

func cloneToken(t authcore.VerificationToken) *authcore.VerificationToken {
	out := t
	if t.UsedAt != nil {
		used := *t.UsedAt
		out.UsedAt = &used
	}
	return &out
}

// LogStore keeps security log entries in an append-only slice. Safe for
// concurrent use.
type LogStore struct {
	mu      sync.RWMutex
	entries []authcore.SecurityLog
}

// NewLogStore returns an empty store.
func NewLogStore() *LogStore {
	return &LogStore{}
}

// Append implements authcore.SecurityLogStore.
func (s *LogStore) Append(_ context.Context, entry *authcore.SecurityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *cloneLog(*entry))
	return nil
}

// FindByUser implements authcore.SecurityLogStore.
func (s *LogStore) FindByUser(_ context.Context, userID string, limit int) ([]authcore.SecurityLog, error) {
	return s.filter(limit, func(e authcore.SecurityLog) bool { return e.UserID == userID })
}

// FindByEmail implements authcore.SecurityLogStore.
func (s *LogStore) FindByEmail(_ context.Context, email string, limit int) ([]authcore.SecurityLog, error) {
	return s.filter(limit, func(e authcore.SecurityLog) bool { return e.Email == email })
}

// FindByIP implements authcore.SecurityLogStore.
func (s *LogStore) FindByIP(_ context.Context, ip string, limit int) ([]authcore.SecurityLog, error) {
	return s.filter(limit, func(e authcore.SecurityLog) bool { return e.IP == ip })
}

// CountFailedLogins implements authcore.SecurityLogStore.
func (s *LogStore) CountFailedLogins(_ context.Context, email string, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, e := range s.entries {
		if e.Action == authcore.ActionFailedLogin && e.Email == email && !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// Stats implements authcore.SecurityLogStore.
func (s *LogStore) Stats(_ context.Context, since time.Time) (map[string]authcore.ActionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := make(map[string]authcore.ActionStats)
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

// DeleteOlderThan implements authcore.SecurityLogStore.
func (s *LogStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
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

func (s *LogStore) filter(limit int, match func(authcore.SecurityLog) bool) ([]authcore.SecurityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []authcore.SecurityLog
	for _, e := range s.entries {
		if match(e) {
			out = append(out, *cloneLog(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneLog(e authcore.SecurityLog) *authcore.SecurityLog {
	out := e
	if e.Metadata != nil {
		out.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
