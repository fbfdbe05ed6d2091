package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Kapil218/fullstack-devops/internal/identity/domain"
	"github.com/Kapil218/fullstack-devops/pkg/token"
)

// refreshTokenBytes is the entropy of an opaque refresh token value.
const refreshTokenBytes = 32

// Issuer mints access/refresh token pairs for accounts. Access tokens are
// signed JWTs; refresh tokens are opaque random values whose hash is stored
// against the account row.
type Issuer struct {
	signer     *token.Signer
	refreshTTL time.Duration
}

// NewIssuer creates an issuer with the given signer and refresh token lifetime.
func NewIssuer(signer *token.Signer, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		signer:     signer,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken creates a signed access token carrying the account's
// identity claims.
func (i *Issuer) IssueAccessToken(account *domain.Account) (string, error) {
	signed, err := i.signer.Sign(account.ID, account.Username)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// NewRefreshToken generates an opaque refresh token value and its expiry.
// The raw value goes to the client; only its hash is ever persisted.
func (i *Issuer) NewRefreshToken() (value string, expiresAt time.Time, err error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("generate refresh token: %w", err)
	}
	value = base64.RawURLEncoding.EncodeToString(buf)
	expiresAt = time.Now().UTC().Add(i.refreshTTL)
	return value, expiresAt, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (i *Issuer) AccessTokenTTL() time.Duration {
	return i.signer.TTL()
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (i *Issuer) RefreshTokenTTL() time.Duration {
	return i.refreshTTL
}

// HashToken returns the SHA256 hex digest of the given token value.
func HashToken(value string) string {
	h := sha256.Sum256([]byte(value))
	return hex.EncodeToString(h[:])
}
