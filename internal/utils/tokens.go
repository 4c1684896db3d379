package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// DefaultTokenBytes gives 64 hex characters.
const DefaultTokenBytes = 32

// RandomHex returns n bytes from crypto/rand, hex encoded.
func RandomHex(n int) (string, error) {
	if n <= 0 {
		n = DefaultTokenBytes
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// MaskToken keeps a short prefix so a token can be correlated in logs
// without being usable.
func MaskToken(token string) string {
	const keep = 6
	if len(token) <= keep {
		return "***"
	}
	return token[:keep] + "***"
}
