// Package jwtx issues and parses the stateless session tokens returned at
// login. Tokens are HMAC-signed with a process-wide secret supplied at
// startup.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("jwtx: invalid token")

// Claims carried by a session token: the registered subject holds the
// account id, Email identifies the account for collaborating services.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Signer mints HS256 session tokens bound to an account identity.
type Signer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration // zero means no expiry claim
}

// Sign issues a session token with subject = accountID and an email claim.
func (s *Signer) Sign(accountID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  accountID,
			Issuer:   s.Issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Email: email,
	}
	if s.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.TTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates the signature (and expiry, when present) of a session
// token and returns its claims.
func (s *Signer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
