package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lucasandr3/authcore"
)

func TestUserStoreRoundTrip(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	if _, err := s.FindByEmail(ctx, "a@example.com"); !errors.Is(err, authcore.ErrUserNotFound) {
		t.Fatalf("miss error = %v", err)
	}

	user := &authcore.User{ID: "u1", Email: "a@example.com", IsActive: true, Permissions: []string{"x"}}
	if err := s.Save(ctx, user); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.FindByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	// The store hands out copies; mutating them must not leak back.
	got.Email = "changed@example.com"
	got.Permissions[0] = "y"

	again, err := s.FindByID(ctx, "u1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if again.Email != "a@example.com" || again.Permissions[0] != "x" {
		t.Fatalf("stored user mutated through a returned copy: %+v", again)
	}

	exists, err := s.ExistsByEmail(ctx, "a@example.com")
	if err != nil || !exists {
		t.Fatalf("ExistsByEmail = %v, %v", exists, err)
	}
	// Case-sensitive equality.
	exists, err = s.ExistsByEmail(ctx, "A@example.com")
	if err != nil || exists {
		t.Fatalf("case-insensitive match: %v, %v", exists, err)
	}
}

func TestTokenStoreInvalidate(t *testing.T) {
	s := NewTokenStore()
	ctx := context.Background()
	now := time.Now()

	for _, tok := range []string{"t1", "t2"} {
		err := s.Save(ctx, &authcore.VerificationToken{
			ID: tok, Token: tok, Type: authcore.TokenTypeEmailVerification,
			Email: "a@example.com", ExpiresAt: now.Add(time.Hour), CreatedAt: now,
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	err := s.Save(ctx, &authcore.VerificationToken{
		ID: "t3", Token: "t3", Type: authcore.TokenTypePasswordReset,
		Email: "a@example.com", ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.InvalidateAllForEmailAndType(ctx, "a@example.com", authcore.TokenTypeEmailVerification, now); err != nil {
		t.Fatalf("InvalidateAllForEmailAndType: %v", err)
	}

	for _, tok := range []string{"t1", "t2"} {
		got, err := s.FindByToken(ctx, tok)
		if err != nil {
			t.Fatalf("FindByToken(%s): %v", tok, err)
		}
		if got.UsedAt == nil {
			t.Fatalf("token %s not invalidated", tok)
		}
	}
	reset, err := s.FindByToken(ctx, "t3")
	if err != nil {
		t.Fatalf("FindByToken(t3): %v", err)
	}
	if reset.UsedAt != nil {
		t.Fatal("other-type token invalidated")
	}
}

func TestTokenStoreDeleteExpired(t *testing.T) {
	s := NewTokenStore()
	ctx := context.Background()
	now := time.Now()

	_ = s.Save(ctx, &authcore.VerificationToken{ID: "old", Token: "old", ExpiresAt: now.Add(-time.Hour)})
	_ = s.Save(ctx, &authcore.VerificationToken{ID: "new", Token: "new", ExpiresAt: now.Add(time.Hour)})

	removed, err := s.DeleteExpired(ctx, now)
	if err != nil || removed != 1 {
		t.Fatalf("DeleteExpired = %d, %v", removed, err)
	}
	if _, err := s.FindByToken(ctx, "old"); !errors.Is(err, authcore.ErrTokenNotFound) {
		t.Fatal("expired token survived")
	}
	if _, err := s.FindByToken(ctx, "new"); err != nil {
		t.Fatalf("live token removed: %v", err)
	}
}

func TestLogStoreQueriesAndCleanup(t *testing.T) {
	s := NewLogStore()
	ctx := context.Background()
	now := time.Now()

	entries := []authcore.SecurityLog{
		{ID: "1", Action: authcore.ActionFailedLogin, Email: "a@example.com", IP: "ip1", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "2", Action: authcore.ActionFailedLogin, Email: "a@example.com", IP: "ip1", CreatedAt: now.Add(-time.Minute)},
		{ID: "3", Action: authcore.ActionLogin, Email: "a@example.com", UserID: "u1", IP: "ip2", Success: true, CreatedAt: now},
	}
	for i := range entries {
		if err := s.Append(ctx, &entries[i]); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	byEmail, err := s.FindByEmail(ctx, "a@example.com", 2)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if len(byEmail) != 2 || byEmail[0].ID != "3" {
		t.Fatalf("FindByEmail = %+v", byEmail)
	}

	count, err := s.CountFailedLogins(ctx, "a@example.com", now.Add(-time.Hour))
	if err != nil || count != 1 {
		t.Fatalf("CountFailedLogins = %d, %v", count, err)
	}

	stats, err := s.Stats(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[authcore.ActionFailedLogin].Failed != 2 || stats[authcore.ActionLogin].Success != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	removed, err := s.DeleteOlderThan(ctx, now.Add(-time.Hour))
	if err != nil || removed != 1 {
		t.Fatalf("DeleteOlderThan = %d, %v", removed, err)
	}
	left, _ := s.FindByEmail(ctx, "a@example.com", 10)
	if len(left) != 2 {
		t.Fatalf("entries left = %d", len(left))
	}
}
