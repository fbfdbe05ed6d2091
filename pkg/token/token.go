// Package token mints and verifies the signed access tokens that carry
// identity between the identity service and the resource services. The
// signing secret is symmetric (HS256) and is distributed to every verifying
// service through configuration at startup; verification never contacts the
// identity service or its store.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim stamped on every access token.
const Issuer = "identity-service"

// AccessClaims are the claims embedded in an access token.
type AccessClaims struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// Signer mints signed access tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner creates a signer with the given shared secret and token lifetime.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Sign creates a signed access token asserting the given identity.
func (s *Signer) Sign(accountID, username string) (string, error) {
	now := s.now().UTC()
	claims := &AccessClaims{
		AccountID: accountID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    Issuer,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}

// TTL returns the configured access token lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Verifier checks access token signatures and expiry. It performs no I/O:
// a token is valid iff the signature matches the shared secret and the
// expiry has not passed.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier creates a verifier for tokens signed with the given secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Verify parses and validates an access token, returning its claims.
// Any failure (malformed token, wrong signature, expiry) returns an error;
// callers must not distinguish between the causes when responding.
func (v *Verifier) Verify(tokenString string) (*AccessClaims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return v.now() }))
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := tok.Claims.(*AccessClaims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid access token claims")
	}

	return claims, nil
}
