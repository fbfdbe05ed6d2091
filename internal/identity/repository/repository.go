package repository

import (
	"context"
	"time"

	"github.com/Kapil218/fullstack-devops/internal/identity/domain"
)

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// Create inserts a new account. A username or email collision returns
	// a duplicate-identity error.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByEmail retrieves an account by its email address.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// UpdatePassword replaces the stored password hash for the account.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetRefreshToken overwrites the account's refresh token state,
	// invalidating any previously issued refresh token.
	SetRefreshToken(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error

	// RotateRefreshToken atomically replaces the refresh token state in a
	// single conditional update: it matches only when the stored hash equals
	// oldHash and has not expired, and returns the owning account. No match
	// returns a not-found error, so exactly one of any concurrent rotations
	// with the same old hash can succeed.
	RotateRefreshToken(ctx context.Context, oldHash, newHash string, expiresAt time.Time) (*domain.Account, error)

	// ClearRefreshToken removes the refresh token state matching the given
	// hash and returns the owning account's ID. Clearing a hash that no
	// longer matches is not an error; it returns an empty ID.
	ClearRefreshToken(ctx context.Context, tokenHash string) (string, error)

	// ClearAccountSessions removes any refresh token state for the account,
	// forcing every outstanding session to re-authenticate.
	ClearAccountSessions(ctx context.Context, accountID string) error
}
