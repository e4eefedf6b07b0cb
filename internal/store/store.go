package store

import (
	"context"
	"errors"

	"github.com/authwizard/authwizard/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. Uniqueness of account emails is enforced here, at the
// storage layer, so concurrent signups racing past the service-level
// pre-check still collapse to a single account.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Accounts interface {
	// CreateAccount inserts a new account and returns it with the
	// driver-assigned id and timestamps populated. Returns ErrAlreadyExists
	// when an account with the same email is already stored.
	CreateAccount(ctx context.Context, a domain.Account) (domain.Account, error)

	// GetAccountByEmail fetches an account by its normalized email address.
	// PasswordHash and PasswordSalt are populated only when includeSecrets
	// is true; the default read shape excludes them so credential material
	// never travels further than the login path that needs it.
	GetAccountByEmail(ctx context.Context, email string, includeSecrets bool) (domain.Account, error)

	// GetAccountByVerificationToken fetches the account holding an
	// outstanding email verification token. Secrets are never included.
	GetAccountByVerificationToken(ctx context.Context, token string) (domain.Account, error)

	// MarkEmailVerified flips email_verified and clears the verification
	// token in a single statement, so the token cannot outlive redemption.
	MarkEmailVerified(ctx context.Context, accountID string) error
}
