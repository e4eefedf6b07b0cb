package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/authwizard/authwizard/internal/domain"
	"github.com/authwizard/authwizard/pkg/idx"
)

type accountsRepo struct {
	db *sql.DB
}

// Columns containing credential material are scanned only when the caller
// asks for them; the default read shape leaves hash and salt empty.
const (
	accountColumns = `id, email, first_name, last_name, email_verified,
		email_verification_token, created_at, updated_at`
	accountColumnsWithSecrets = accountColumns + `, password_hash, password_salt`
)

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.ID = idx.New().String()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, email, first_name, last_name,
			password_hash, password_salt,
			email_verified, email_verification_token,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.FirstName, a.LastName,
		a.PasswordHash, a.PasswordSalt,
		a.EmailVerified, optionalString(a.EmailVerificationToken),
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapConstraint(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByEmail(
	ctx context.Context,
	email string,
	includeSecrets bool,
) (domain.Account, error) {
	if includeSecrets {
		row := r.db.QueryRowContext(ctx,
			`SELECT `+accountColumnsWithSecrets+` FROM accounts WHERE email = ?`, email)
		return scanAccountWithSecrets(row)
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByVerificationToken(
	ctx context.Context,
	token string,
) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email_verification_token = ?`, token)
	return scanAccount(row)
}

func (r *accountsRepo) MarkEmailVerified(ctx context.Context, accountID string) error {
	// Setting the flag and unsetting the token in one statement keeps
	// redemption atomic per account.
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET email_verified = 1, email_verification_token = NULL, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), accountID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account
	var token sql.NullString

	err := row.Scan(
		&a.ID, &a.Email, &a.FirstName, &a.LastName,
		&a.EmailVerified, &token, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.EmailVerificationToken = nullStringPtr(token)
	return a, nil
}

func scanAccountWithSecrets(row *sql.Row) (domain.Account, error) {
	var a domain.Account
	var token sql.NullString

	err := row.Scan(
		&a.ID, &a.Email, &a.FirstName, &a.LastName,
		&a.EmailVerified, &token, &a.CreatedAt, &a.UpdatedAt,
		&a.PasswordHash, &a.PasswordSalt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.EmailVerificationToken = nullStringPtr(token)
	return a, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	val := ns.String
	return &val
}

func optionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
