// Package jwt implements the HS256 token codec used by authcore: access
// and refresh token issuance, parsing with typed failure kinds, and
// Authorization header extraction.
//
// The codec is symmetric by design. One process-wide secret signs and
// verifies every token; there is no key rotation and no asymmetric mode.
package jwt
