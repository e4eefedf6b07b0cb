package domain

import (
	"strings"
	"time"
)

// Account is a registered user. PasswordHash and PasswordSalt are secrets:
// store reads leave them empty unless explicitly requested.
type Account struct {
	ID           string
	Email        string // normalized: trimmed, lowercase
	FirstName    string
	LastName     string
	PasswordHash string
	PasswordSalt string

	// EmailVerified flips to true exactly once, when the verification token
	// is redeemed. EmailVerificationToken is present only while unverified
	// and is cleared on redemption.
	EmailVerified          bool
	EmailVerificationToken *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail canonicalizes an email address for storage and lookup.
// Addresses are compared case-insensitively with surrounding space ignored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
