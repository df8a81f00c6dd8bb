// Package middleware provides net/http adapters for the authcore engine:
// bearer-token authentication (Guard), role and permission gates with
// Admin/Moderator presets, and an in-memory per-IP rate limiter.
//
// All adapters are func(http.Handler) http.Handler and compose in the
// usual order: rate limit outermost, then Guard, then role gates.
package middleware
