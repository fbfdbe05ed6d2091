package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Kapil218/fullstack-devops/internal/identity/domain"
	"github.com/Kapil218/fullstack-devops/pkg/database"
	apperrors "github.com/Kapil218/fullstack-devops/pkg/errors"
)

// AccountRepository implements repository.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db database.DBTX
}

// NewAccountRepository creates a new PostgreSQL-backed account repository.
func NewAccountRepository(db database.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, username, email, password_hash, refresh_token_hash, refresh_token_expires_at, created_at, updated_at`

// Create inserts a new account into the database.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.Username,
		a.Email,
		a.PasswordHash,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			field, value := "email", a.Email
			if strings.Contains(err.Error(), "accounts_username") {
				field, value = "username", a.Username
			}
			return apperrors.DuplicateIdentity(field, value)
		}
		return apperrors.Storage(fmt.Errorf("insert account: %w", err))
	}

	return nil
}

// GetByID retrieves an account by its ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(ctx, query, id)
}

// GetByEmail retrieves an account by its email address.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(ctx, query, email)
}

// UpdatePassword replaces the stored password hash for the account.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.db.Exec(ctx, query, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("update password: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("account", id)
	}

	return nil
}

// SetRefreshToken overwrites the account's refresh token state, invalidating
// any previously issued refresh token.
func (r *AccountRepository) SetRefreshToken(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE accounts
		SET refresh_token_hash = $1, refresh_token_expires_at = $2, updated_at = $3
		WHERE id = $4`

	ct, err := r.db.Exec(ctx, query, tokenHash, expiresAt, time.Now().UTC(), accountID)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("set refresh token: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("account", accountID)
	}

	return nil
}

// RotateRefreshToken atomically replaces the refresh token state. The update
// matches only a row whose stored hash equals oldHash and has not expired, so
// of any concurrent rotations presenting the same token exactly one wins;
// the rest see pgx.ErrNoRows and fail closed.
func (r *AccountRepository) RotateRefreshToken(ctx context.Context, oldHash, newHash string, expiresAt time.Time) (*domain.Account, error) {
	query := `
		UPDATE accounts
		SET refresh_token_hash = $1, refresh_token_expires_at = $2, updated_at = $3
		WHERE refresh_token_hash = $4 AND refresh_token_expires_at > $5
		RETURNING ` + accountColumns

	now := time.Now().UTC()

	var a domain.Account
	err := r.db.QueryRow(ctx, query, newHash, expiresAt, now, oldHash, now).Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.RefreshTokenHash,
		&a.RefreshTokenExpiresAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Storage(fmt.Errorf("rotate refresh token: %w", err))
	}

	return &a, nil
}

// ClearRefreshToken removes the refresh token state matching the given hash
// and returns the owning account's ID. A hash that no longer matches any row
// is not an error: logout is idempotent, and the ID comes back empty.
func (r *AccountRepository) ClearRefreshToken(ctx context.Context, tokenHash string) (string, error) {
	query := `
		UPDATE accounts
		SET refresh_token_hash = '', refresh_token_expires_at = NULL, updated_at = $1
		WHERE refresh_token_hash = $2
		RETURNING id`

	var accountID string
	err := r.db.QueryRow(ctx, query, time.Now().UTC(), tokenHash).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.Storage(fmt.Errorf("clear refresh token: %w", err))
	}

	return accountID, nil
}

// ClearAccountSessions removes any refresh token state for the account.
func (r *AccountRepository) ClearAccountSessions(ctx context.Context, accountID string) error {
	query := `
		UPDATE accounts
		SET refresh_token_hash = '', refresh_token_expires_at = NULL, updated_at = $1
		WHERE id = $2`

	ct, err := r.db.Exec(ctx, query, time.Now().UTC(), accountID)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("clear account sessions: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("account", accountID)
	}

	return nil
}

// scanAccount is a helper that executes a query expected to return a single account row.
func (r *AccountRepository) scanAccount(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	var a domain.Account

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.RefreshTokenHash,
		&a.RefreshTokenExpiresAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Storage(fmt.Errorf("scan account: %w", err))
	}

	return &a, nil
}

// isUniqueViolation reports whether the error is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
