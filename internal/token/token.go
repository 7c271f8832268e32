// Package token generates the opaque one-time tokens used for email
// verification and password reset links.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the entropy of each generated token.
const tokenBytes = 32

// Generate returns a URL-safe random token suitable for embedding in a link.
func Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
