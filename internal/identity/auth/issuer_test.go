package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kapil218/fullstack-devops/internal/identity/domain"
	"github.com/Kapil218/fullstack-devops/pkg/token"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	return NewIssuer(token.NewSigner("test-secret", 15*time.Minute), 7*24*time.Hour)
}

func TestIssueAccessToken_VerifiableClaims(t *testing.T) {
	issuer := newTestIssuer(t)
	account := &domain.Account{ID: "acct-1", Username: "alice"}

	signed, err := issuer.IssueAccessToken(account)
	require.NoError(t, err)

	claims, err := token.NewVerifier("test-secret").Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.AccountID)
	assert.Equal(t, "alice", claims.Username)
}

func TestNewRefreshToken_OpaqueAndUnique(t *testing.T) {
	issuer := newTestIssuer(t)

	v1, exp1, err := issuer.NewRefreshToken()
	require.NoError(t, err)
	v2, _, err := issuer.NewRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, v1, v2)

	// 32 bytes of entropy, base64url without padding.
	raw, err := base64.RawURLEncoding.DecodeString(v1)
	require.NoError(t, err)
	assert.Len(t, raw, refreshTokenBytes)

	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), exp1, 5*time.Second)
}

func TestHashToken_StableAndDistinct(t *testing.T) {
	h1 := HashToken("token-a")
	h2 := HashToken("token-a")
	h3 := HashToken("token-b")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // sha256 hex
}
