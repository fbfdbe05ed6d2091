package domain

import (
	"time"
)

// Account represents a registered account in the credential store.
type Account struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	// Refresh token state lives on the account row: at most one valid
	// refresh token per account at any time.
	RefreshTokenHash      string     `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// Session holds a freshly issued access/refresh token pair. Values are
// transported to the client only as cookies, never in response bodies.
type Session struct {
	AccessToken  string
	RefreshToken string
}
