package cryptox

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// SaltSize is the default size for per-account password salts.
	SaltSize = 16
	// VerificationTokenSize is the size for email verification tokens.
	// Larger than a salt since the token is exposed in a URL.
	VerificationTokenSize = 32
)

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, returned as a hex string (2*size characters).
// Every call draws fresh randomness; tokens are never reused.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
