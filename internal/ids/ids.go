// Package ids generates row ids and public access tokens.
package ids

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/oklog/ulid"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// NewULID returns a monotonic ULID string. Safe for concurrent use.
// Panics if the entropy source fails.
func NewULID() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// TokenBytes is the amount of randomness in a public token.
const TokenBytes = 24

// NewToken returns a URL-safe random token (24 bytes, base64url, no padding).
func NewToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
