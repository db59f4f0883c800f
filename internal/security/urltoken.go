package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// URLTokenBytes gives 256 bits of entropy per public link.
const URLTokenBytes = 32

// NewURLToken returns an unguessable, URL-safe token for public feedback links.
func NewURLToken() (string, error) {
	buf := make([]byte, URLTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate url token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
