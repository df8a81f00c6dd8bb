package authcore

import (
	"context"
	"testing"
	"time"
)

func TestPasswordResetUnknownEmail(t *testing.T) {
	env := newTestEngine(t)

	token, err := env.engine.RequestPasswordReset(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if token != nil {
		t.Fatal("token issued for unknown email")
	}
}

func TestPasswordResetRoundTrip(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	registerTestUser(t, env, "alice@example.com", "old password")

	token, err := env.engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if token == nil {
		t.Fatal("no token for existing user")
	}
	if token.Type != TokenTypePasswordReset {
		t.Fatalf("token type = %q", token.Type)
	}
	if want := time.Hour; token.ExpiresAt.Sub(token.CreatedAt) != want {
		t.Fatalf("token lifetime = %v, want %v", token.ExpiresAt.Sub(token.CreatedAt), want)
	}

	ok, err := env.engine.ConfirmPasswordReset(ctx, token.Token, "new password")
	if err != nil || !ok {
		t.Fatalf("ConfirmPasswordReset = %v, %v", ok, err)
	}

	if _, err := env.engine.Authenticate(ctx, "alice@example.com", "old password"); err == nil {
		t.Fatal("old password still authenticates")
	}
	if _, err := env.engine.Authenticate(ctx, "alice@example.com", "new password"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestPasswordResetTokenSingleUse(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	registerTestUser(t, env, "alice@example.com", "pw")

	token, err := env.engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if ok, _ := env.engine.ConfirmPasswordReset(ctx, token.Token, "first"); !ok {
		t.Fatal("first reset failed")
	}
	if ok, _ := env.engine.ConfirmPasswordReset(ctx, token.Token, "second"); ok {
		t.Fatal("used reset token accepted again")
	}
}

func TestPasswordResetRejectsWrongTokenType(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	registerTestUser(t, env, "alice@example.com", "pw")

	verification, err := env.engine.RequestEmailVerification(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestEmailVerification: %v", err)
	}
	if ok, _ := env.engine.ConfirmPasswordReset(ctx, verification.Token, "np"); ok {
		t.Fatal("email verification token reset a password")
	}
}

func TestPasswordResetSecondRequestInvalidatesFirst(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	registerTestUser(t, env, "alice@example.com", "pw")

	first, err := env.engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := env.engine.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if ok, _ := env.engine.ConfirmPasswordReset(ctx, first.Token, "np"); ok {
		t.Fatal("superseded reset token accepted")
	}
	if ok, _ := env.engine.ConfirmPasswordReset(ctx, second.Token, "np"); !ok {
		t.Fatal("latest reset token rejected")
	}
}
