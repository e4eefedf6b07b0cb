package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/authwizard/authwizard/internal/domain"
	"github.com/authwizard/authwizard/internal/notify"
	"github.com/authwizard/authwizard/internal/store"
	"github.com/authwizard/authwizard/internal/store/drivers/sqlite"
	"github.com/authwizard/authwizard/pkg/cryptox"
	"github.com/authwizard/authwizard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://localhost:8080"

// captureNotifier records dispatched messages so tests can await the
// fire-and-forget send.
type captureNotifier struct {
	msgs chan notify.Message
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{msgs: make(chan notify.Message, 4)}
}

func (n *captureNotifier) Send(ctx context.Context, msg notify.Message) error {
	n.msgs <- msg
	return nil
}

func (n *captureNotifier) wait(t *testing.T) notify.Message {
	t.Helper()
	select {
	case msg := <-n.msgs:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification dispatch")
		return notify.Message{}
	}
}

func (n *captureNotifier) requireNoDispatch(t *testing.T) {
	t.Helper()
	select {
	case msg := <-n.msgs:
		t.Fatalf("unexpected notification dispatched to %s", msg.To)
	case <-time.After(100 * time.Millisecond):
	}
}

func newTestService(t *testing.T) (*AccountService, *captureNotifier) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	notifier := newCaptureNotifier()
	svc := &AccountService{
		Store:    st,
		Notifier: notifier,
		Signer:   &jwtx.Signer{Secret: []byte("test-secret"), Issuer: "authwizard"},
		BaseURL:  testBaseURL,
	}
	return svc, notifier
}

func signupRequest(email string) SignupRequest {
	return SignupRequest{
		Email:           email,
		FirstName:       "Jane",
		LastName:        "Doe",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	}
}

// tokenFromLink pulls the verification token out of the link embedded in
// the welcome mail.
func tokenFromLink(t *testing.T, msg notify.Message) string {
	t.Helper()

	link, ok := msg.Variables["Link"].(string)
	require.True(t, ok, "message is missing a Link variable")

	prefix := testBaseURL + "/verify-email/"
	require.True(t, strings.HasPrefix(link, prefix), "unexpected link %q", link)
	return strings.TrimPrefix(link, prefix)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("persists unverified account with derived credentials", func(t *testing.T) {
		svc, notifier := newTestService(t)

		created, err := svc.Signup(ctx, signupRequest("jane@example.com"))
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		require.False(t, created.EmailVerified)

		stored, err := svc.Store.Accounts().GetAccountByEmail(ctx, "jane@example.com", true)
		require.NoError(t, err)
		require.NotEmpty(t, stored.PasswordSalt)
		require.Equal(t, cryptox.DeriveKey(stored.PasswordSalt, "hunter22"), stored.PasswordHash)

		msg := notifier.wait(t)
		require.Equal(t, "jane@example.com", msg.To)
		require.Equal(t, verifyEmailSubject, msg.Subject)
		require.Equal(t, notify.TemplateVerifyEmail, msg.Template)
		require.Equal(t, "Jane", msg.Variables["FirstName"])

		// The link must carry a token that actually redeems.
		token := tokenFromLink(t, msg)
		require.Len(t, token, cryptox.VerificationTokenSize*2)

		result, err := svc.VerifyEmail(ctx, token)
		require.NoError(t, err)
		require.Equal(t, VerifyOutcomeVerified, result.Outcome)
	})

	t.Run("normalizes email before storing", func(t *testing.T) {
		svc, notifier := newTestService(t)

		_, err := svc.Signup(ctx, signupRequest("  Jane@Example.COM "))
		require.NoError(t, err)
		notifier.wait(t)

		stored, err := svc.Store.Accounts().GetAccountByEmail(ctx, "jane@example.com", false)
		require.NoError(t, err)
		require.Equal(t, "jane@example.com", stored.Email)
	})

	t.Run("duplicate email yields ErrEmailTaken without side effects", func(t *testing.T) {
		svc, notifier := newTestService(t)

		_, err := svc.Signup(ctx, signupRequest("jane@example.com"))
		require.NoError(t, err)
		notifier.wait(t)

		_, err = svc.Signup(ctx, signupRequest("jane@example.com"))
		require.ErrorIs(t, err, ErrEmailTaken)
		notifier.requireNoDispatch(t)
	})

	t.Run("uniqueness race surfaced by the store maps to ErrEmailTaken", func(t *testing.T) {
		fake := &fakeStore{accounts: &fakeAccounts{
			getByEmailErr: store.ErrNotFound, // pre-check passes
			createErr:     store.ErrAlreadyExists,
		}}
		svc := &AccountService{
			Store:    fake,
			Notifier: newCaptureNotifier(),
			Signer:   &jwtx.Signer{Secret: []byte("test-secret")},
			BaseURL:  testBaseURL,
		}

		_, err := svc.Signup(ctx, signupRequest("jane@example.com"))
		require.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	// seedVerified registers and verifies an account, returning its id.
	seedVerified := func(t *testing.T, svc *AccountService, notifier *captureNotifier) string {
		t.Helper()

		created, err := svc.Signup(ctx, signupRequest("jane@example.com"))
		require.NoError(t, err)

		token := tokenFromLink(t, notifier.wait(t))
		result, err := svc.VerifyEmail(ctx, token)
		require.NoError(t, err)
		require.Equal(t, VerifyOutcomeVerified, result.Outcome)

		return created.ID
	}

	t.Run("issues a session token bound to the account identity", func(t *testing.T) {
		svc, notifier := newTestService(t)
		accountID := seedVerified(t, svc, notifier)

		token, err := svc.Login(ctx, "jane@example.com", "hunter22")
		require.NoError(t, err)

		claims, err := svc.Signer.Parse(token)
		require.NoError(t, err)
		require.Equal(t, accountID, claims.Subject)
		require.Equal(t, "jane@example.com", claims.Email)
	})

	t.Run("unverified account is refused distinctly", func(t *testing.T) {
		svc, notifier := newTestService(t)
		_, err := svc.Signup(ctx, signupRequest("jane@example.com"))
		require.NoError(t, err)
		notifier.wait(t)

		_, err = svc.Login(ctx, "jane@example.com", "hunter22")
		require.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		svc, notifier := newTestService(t)
		seedVerified(t, svc, notifier)

		_, wrongPassErr := svc.Login(ctx, "jane@example.com", "not-the-password")
		require.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)

		_, unknownErr := svc.Login(ctx, "nobody@example.com", "hunter22")
		require.ErrorIs(t, unknownErr, ErrInvalidCredentials)

		require.Equal(t, wrongPassErr, unknownErr)
	})
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("missing and unknown tokens are invalid outcomes, not errors", func(t *testing.T) {
		svc, _ := newTestService(t)

		result, err := svc.VerifyEmail(ctx, "")
		require.NoError(t, err)
		require.Equal(t, VerifyOutcomeInvalid, result.Outcome)

		result, err = svc.VerifyEmail(ctx, "never-issued")
		require.NoError(t, err)
		require.Equal(t, VerifyOutcomeInvalid, result.Outcome)
	})

	t.Run("token redeems once, then the link is dead", func(t *testing.T) {
		svc, notifier := newTestService(t)
		_, err := svc.Signup(ctx, signupRequest("jane@example.com"))
		require.NoError(t, err)
		token := tokenFromLink(t, notifier.wait(t))

		result, err := svc.VerifyEmail(ctx, token)
		require.NoError(t, err)
		require.Equal(t, VerifyOutcomeVerified, result.Outcome)
		require.Equal(t, "Jane", result.FirstName)

		stored, err := svc.Store.Accounts().GetAccountByEmail(ctx, "jane@example.com", false)
		require.NoError(t, err)
		require.True(t, stored.EmailVerified)
		require.Nil(t, stored.EmailVerificationToken)

		// Second redemption of the consumed token.
		result, err = svc.VerifyEmail(ctx, token)
		require.NoError(t, err)
		require.Equal(t, VerifyOutcomeInvalid, result.Outcome)
	})

	t.Run("already-verified account is idempotent with no mutation", func(t *testing.T) {
		token := "leftover-token"
		accounts := &fakeAccounts{
			byToken: domain.Account{
				ID:                     "acct-1",
				Email:                  "jane@example.com",
				FirstName:              "Jane",
				EmailVerified:          true,
				EmailVerificationToken: &token,
			},
		}
		svc := &AccountService{Store: &fakeStore{accounts: accounts}}

		result, err := svc.VerifyEmail(ctx, token)
		require.NoError(t, err)
		require.Equal(t, VerifyOutcomeAlreadyVerified, result.Outcome)
		require.Equal(t, "Jane", result.FirstName)
		require.Zero(t, accounts.markCalls)
	})

	t.Run("storage failures propagate", func(t *testing.T) {
		svc := &AccountService{Store: &fakeStore{accounts: &fakeAccounts{
			getByTokenErr: errors.New("disk on fire"),
		}}}

		_, err := svc.VerifyEmail(ctx, "some-token")
		require.Error(t, err)
		require.NotErrorIs(t, err, store.ErrNotFound)
	})
}

// --- fakes ---

type fakeStore struct {
	accounts *fakeAccounts
}

func (f *fakeStore) Accounts() store.Accounts        { return f.accounts }
func (f *fakeStore) ApplyMigrations() error          { return nil }
func (f *fakeStore) Close() error                    { return nil }
func (f *fakeStore) Ping(ctx context.Context) error  { return nil }

type fakeAccounts struct {
	byEmail       domain.Account
	getByEmailErr error

	byToken       domain.Account
	getByTokenErr error

	createErr error

	markCalls int
	markErr   error
}

func (f *fakeAccounts) CreateAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	if f.createErr != nil {
		return domain.Account{}, f.createErr
	}
	a.ID = "fake-id"
	return a, nil
}

func (f *fakeAccounts) GetAccountByEmail(ctx context.Context, email string, includeSecrets bool) (domain.Account, error) {
	if f.getByEmailErr != nil {
		return domain.Account{}, f.getByEmailErr
	}
	return f.byEmail, nil
}

func (f *fakeAccounts) GetAccountByVerificationToken(ctx context.Context, token string) (domain.Account, error) {
	if f.getByTokenErr != nil {
		return domain.Account{}, f.getByTokenErr
	}
	return f.byToken, nil
}

func (f *fakeAccounts) MarkEmailVerified(ctx context.Context, accountID string) error {
	f.markCalls++
	return f.markErr
}
