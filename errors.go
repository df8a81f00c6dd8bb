package authcore

import "errors"

// ErrUnauthorized describes the single failure surfaced for every bad,
// expired, or missing credential. The concrete reason is recorded in the
// security log only and never returned to the caller, so failed logins
// cannot be used to probe which accounts exist.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict describes the failure returned when a registration targets
// an email address that already has an account.
var ErrConflict = errors.New("email already registered")

// ErrForbidden describes the failure returned when an authenticated
// principal lacks the required role or permission.
var ErrForbidden = errors.New("forbidden")

// ErrUserNotFound is the store-level miss returned by UserStore lookups.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenNotFound is the store-level miss returned by
// VerificationTokenStore lookups.
var ErrTokenNotFound = errors.New("verification token not found")

// ErrEngineNotReady is returned when an Engine operation runs before the
// Builder wired every required dependency.
var ErrEngineNotReady = errors.New("engine not initialized")
