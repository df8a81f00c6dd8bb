// Package internal holds helpers shared by authcore packages that are not
// part of the public API.
package internal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// verification tokens carry 256 bits of entropy, hex encoded to 64 chars.
const tokenByteLen = 32

// NewSecureToken returns a fresh verification token string: tokenByteLen
// bytes from crypto/rand, hex encoded.
func NewSecureToken() (string, error) {
	buf := make([]byte, tokenByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("authcore: generating secure token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
