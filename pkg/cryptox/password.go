package cryptox

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. These are fixed: changing them would invalidate every
// stored credential, since hashes are re-derived at login.
const (
	iterations = 1000 // PBKDF2 iteration count
	keyLength  = 64   // Derived key length in bytes
)

// DeriveKey derives a password hash from a per-account salt and a plaintext
// password using PBKDF2-SHA512. The derivation is deterministic: the same
// (salt, password) pair always yields the same hex-encoded hash.
func DeriveKey(salt, password string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha512.New)
	return hex.EncodeToString(key)
}

// VerifyPassword re-derives the hash from the stored salt and the supplied
// password and compares it to the stored hash in constant time.
func VerifyPassword(salt, password, encodedHash string) bool {
	derived := DeriveKey(salt, password)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(encodedHash)) == 1
}
