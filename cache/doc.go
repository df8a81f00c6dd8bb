// Package cache provides the TTL key-value store backing authcore's
// short-lived security state: the token blacklist, failed-login counters,
// and per-IP rate counters.
//
// The Store interface is a plain TTL contract; RedisStore is the
// production implementation. Cache layers the security helpers on top,
// keying every entry by a purpose tag plus the SHA-256 of the identifier
// so raw emails, IPs, and tokens never appear in Redis keys.
package cache
