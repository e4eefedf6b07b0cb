package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/authwizard/authwizard/internal/domain"
	"github.com/authwizard/authwizard/internal/notify"
	"github.com/authwizard/authwizard/internal/store"
	"github.com/authwizard/authwizard/pkg/cryptox"
	"github.com/authwizard/authwizard/pkg/jwtx"
	"github.com/authwizard/authwizard/pkg/slogx"
)

var (
	ErrEmailTaken = errors.New("account with this email already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// a caller cannot tell which account emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email is not verified")
)

const verifyEmailSubject = "AuthWizard :: Welcome Aboard"

// AccountService orchestrates the account lifecycle: signup, login, and
// email verification. All collaborators are injected so tests can substitute
// them.
type AccountService struct {
	Store    store.Store
	Notifier notify.Notifier
	Signer   *jwtx.Signer

	// BaseURL prefixes verification links sent in the welcome mail.
	BaseURL string
}

// Signup registers a new unverified account. Field presence, email grammar,
// and password rules are validated at the transport boundary before this is
// invoked; Signup owns the duplicate check, credential derivation, token
// issuance, persistence, and the welcome mail.
//
// The mail is dispatched fire-and-forget: delivery failure is logged and
// never rolls back the created account.
func (s *AccountService) Signup(ctx context.Context, req SignupRequest) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	email := domain.NormalizeEmail(req.Email)

	// Pre-check for a friendlier error. The unique constraint in the store
	// remains the authority: two signups racing past this check still end
	// with one account and one ErrEmailTaken.
	_, err := s.Store.Accounts().GetAccountByEmail(ctx, email, false)
	if err == nil {
		log.Warn("signup attempted with already-registered email")
		return domain.Account{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.Account{}, err
	}

	salt, err := cryptox.GenerateToken(cryptox.SaltSize)
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	token, err := cryptox.GenerateToken(cryptox.VerificationTokenSize)
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to generate verification token: %w", err)
	}

	account := domain.Account{
		Email:                  email,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		PasswordHash:           cryptox.DeriveKey(salt, req.Password),
		PasswordSalt:           salt,
		EmailVerified:          false,
		EmailVerificationToken: &token,
	}

	created, err := s.Store.Accounts().CreateAccount(ctx, account)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("signup lost duplicate-email race")
			return domain.Account{}, ErrEmailTaken
		}
		log.Error("failed to create account", slog.Any("error", err))
		return domain.Account{}, err
	}

	s.dispatchVerificationMail(ctx, created, token)

	log.Info("account registered",
		slog.String("account_id", created.ID),
	)
	return created, nil
}

// dispatchVerificationMail sends the welcome/verify mail without holding up
// the signup response.
func (s *AccountService) dispatchVerificationMail(ctx context.Context, account domain.Account, token string) {
	log := slogx.FromContext(ctx)

	msg := notify.Message{
		To:       account.Email,
		Subject:  verifyEmailSubject,
		Template: notify.TemplateVerifyEmail,
		Variables: map[string]any{
			"FirstName": account.FirstName,
			"Link":      fmt.Sprintf("%s/verify-email/%s", s.BaseURL, token),
		},
	}

	// The request context ends when the signup response is written; the
	// mail outlives it.
	sendCtx := context.WithoutCancel(ctx)
	go func() {
		if err := s.Notifier.Send(sendCtx, msg); err != nil {
			log.Error("failed to send verification email",
				slog.String("account_id", account.ID),
				slog.Any("error", err),
			)
		}
	}()
}

// Login checks credentials against the stored salt and hash and, for
// verified accounts, issues a signed session token carrying the account
// identity.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	log := slogx.FromContext(ctx)

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, domain.NormalizeEmail(email), true)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login attempted for unknown email")
			return "", ErrInvalidCredentials
		}
		log.Error("failed to fetch account", slog.Any("error", err))
		return "", err
	}

	if !cryptox.VerifyPassword(account.PasswordSalt, password, account.PasswordHash) {
		log.Warn("login password mismatch", slog.String("account_id", account.ID))
		return "", ErrInvalidCredentials
	}

	if !account.EmailVerified {
		log.Warn("login attempted before email verification",
			slog.String("account_id", account.ID),
		)
		return "", ErrEmailNotVerified
	}

	token, err := s.Signer.Sign(account.ID, account.Email)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return "", err
	}

	log.Info("login succeeded", slog.String("account_id", account.ID))
	return token, nil
}

// VerifyOutcome tags the result of a verification-link visit. All three are
// success-shaped: a bad link is a normal outcome here, not an error.
type VerifyOutcome int

const (
	// VerifyOutcomeInvalid covers missing, unknown, and already-consumed tokens.
	VerifyOutcomeInvalid VerifyOutcome = iota
	// VerifyOutcomeAlreadyVerified is returned on repeat verification; no
	// state changes and no side effects fire.
	VerifyOutcomeAlreadyVerified
	// VerifyOutcomeVerified is the one-time Unverified -> Verified transition.
	VerifyOutcomeVerified
)

type VerifyResult struct {
	Outcome   VerifyOutcome
	FirstName string
}

// VerifyEmail redeems a verification token. Redemption is the only
// legitimate use of the token: the transition clears it, so a second visit
// with the same link lands on VerifyOutcomeInvalid.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (VerifyResult, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		log.Warn("email verification attempted without token")
		return VerifyResult{Outcome: VerifyOutcomeInvalid}, nil
	}

	account, err := s.Store.Accounts().GetAccountByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("email verification attempted with unknown token")
			return VerifyResult{Outcome: VerifyOutcomeInvalid}, nil
		}
		log.Error("failed to look up verification token", slog.Any("error", err))
		return VerifyResult{}, err
	}

	if account.EmailVerified {
		log.Info("email already verified", slog.String("account_id", account.ID))
		return VerifyResult{Outcome: VerifyOutcomeAlreadyVerified, FirstName: account.FirstName}, nil
	}

	if err := s.Store.Accounts().MarkEmailVerified(ctx, account.ID); err != nil {
		log.Error("failed to mark email verified",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
		return VerifyResult{}, err
	}

	log.Info("email verified", slog.String("account_id", account.ID))
	return VerifyResult{Outcome: VerifyOutcomeVerified, FirstName: account.FirstName}, nil
}
