package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kapil218/fullstack-devops/internal/identity/auth"
	"github.com/Kapil218/fullstack-devops/internal/identity/domain"
	"github.com/Kapil218/fullstack-devops/internal/identity/repository"
	apperrors "github.com/Kapil218/fullstack-devops/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// EventPublisher publishes identity domain events. Implemented by
// event.Producer; a failure to publish never fails the triggering request.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, account *domain.Account) error
	PublishAccountLoggedIn(ctx context.Context, account *domain.Account) error
	PublishSessionRevoked(ctx context.Context, accountID, reason string) error
}

// AuthService implements the business logic for account and session operations.
type AuthService struct {
	accounts repository.AccountRepository
	issuer   *auth.Issuer
	events   EventPublisher
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	accounts repository.AccountRepository,
	issuer *auth.Issuer,
	events EventPublisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		issuer:   issuer,
		events:   events,
		logger:   logger,
	}
}

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput holds the parameters for account login.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new account with a hashed password. It does not start a
// session; the client logs in afterwards.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if input.Username == "" {
		return nil, apperrors.InvalidInput("username is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	// Publish registration event (non-blocking on failure).
	if err := s.events.PublishAccountRegistered(ctx, account); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.registered event",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "account registered",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	return account, nil
}

// Login authenticates an account with email and password and starts a new
// session, replacing any previously issued refresh token. An unknown email
// and a wrong password produce the identical error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.Account, *domain.Session, error) {
	if input.Email == "" || input.Password == "" {
		return nil, nil, apperrors.InvalidCredentials()
	}

	account, err := s.accounts.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.InvalidCredentials()
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.InvalidCredentials()
	}

	session, err := s.startSession(ctx, account)
	if err != nil {
		return nil, nil, err
	}

	if err := s.events.PublishAccountLoggedIn(ctx, account); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.logged_in event",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "account logged in",
		slog.String("account_id", account.ID),
	)

	return account, session, nil
}

// Refresh rotates the refresh token: the presented value is exchanged for a
// fresh pair in one conditional update. Under concurrent refreshes with the
// same token exactly one caller wins; every other caller gets an invalid
// session error and must log in again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Account, *domain.Session, error) {
	if refreshToken == "" {
		return nil, nil, apperrors.Unauthorized("refresh token is required")
	}

	newValue, expiresAt, err := s.issuer.NewRefreshToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	account, err := s.accounts.RotateRefreshToken(ctx, auth.HashToken(refreshToken), auth.HashToken(newValue), expiresAt)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Stale, expired, or already-rotated token. Fail closed.
			return nil, nil, apperrors.InvalidSession("refresh token is invalid or expired")
		}
		return nil, nil, err
	}

	accessToken, err := s.issuer.IssueAccessToken(account)
	if err != nil {
		return nil, nil, fmt.Errorf("issue access token: %w", err)
	}

	s.logger.InfoContext(ctx, "session refreshed",
		slog.String("account_id", account.ID),
	)

	return account, &domain.Session{
		AccessToken:  accessToken,
		RefreshToken: newValue,
	}, nil
}

// Logout revokes the session identified by the presented refresh token. It is
// idempotent: a missing or stale token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	accountID, err := s.accounts.ClearRefreshToken(ctx, auth.HashToken(refreshToken))
	if err != nil {
		return err
	}
	if accountID == "" {
		// Stale or already-cleared token: nothing was revoked, so no event.
		return nil
	}

	if err := s.events.PublishSessionRevoked(ctx, accountID, "logout"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish session.revoked event",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "session revoked", slog.String("account_id", accountID))

	return nil
}

// Profile retrieves the account for the given verified account ID.
func (s *AuthService) Profile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("account", accountID)
		}
		return nil, err
	}
	return account, nil
}

// ChangePassword verifies the current password, stores a new hash, and clears
// all refresh state so other sessions must log in again.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperrors.InvalidInput("current password is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if currentPassword == newPassword {
		return apperrors.InvalidInput("new password must be different from current password")
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, account.ID, string(hashedPassword)); err != nil {
		return err
	}

	if err := s.accounts.ClearAccountSessions(ctx, account.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear sessions after password change",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.events.PublishSessionRevoked(ctx, account.ID, "password_changed"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish session.revoked event",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("account_id", account.ID),
	)

	return nil
}

// startSession issues an access/refresh pair and overwrites the account's
// stored refresh token state.
func (s *AuthService) startSession(ctx context.Context, account *domain.Account) (*domain.Session, error) {
	accessToken, err := s.issuer.IssueAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshValue, expiresAt, err := s.issuer.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.accounts.SetRefreshToken(ctx, account.ID, auth.HashToken(refreshValue), expiresAt); err != nil {
		return nil, err
	}

	return &domain.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
	}, nil
}

// validatePassword checks that the password meets the minimum length.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}
