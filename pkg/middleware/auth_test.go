package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kapil218/fullstack-devops/pkg/session"
	"github.com/Kapil218/fullstack-devops/pkg/token"
)

const authTestSecret = "middleware-test-secret"

func authTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func signedCookie(t *testing.T, secret, accountID, username string, ttl time.Duration) *http.Cookie {
	t.Helper()
	signed, err := token.NewSigner(secret, ttl).Sign(accountID, username)
	require.NoError(t, err)
	return &http.Cookie{Name: session.AccessCookie, Value: signed}
}

func TestVerify_NoToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)

	verdict := Verify(req, token.NewVerifier(authTestSecret))
	assert.Equal(t, Unauthenticated, verdict.State)
}

func TestVerify_Authorized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.AddCookie(signedCookie(t, authTestSecret, "acct-1", "alice", 15*time.Minute))

	verdict := Verify(req, token.NewVerifier(authTestSecret))
	require.Equal(t, Authorized, verdict.State)
	assert.Equal(t, "acct-1", verdict.Identity.AccountID)
	assert.Equal(t, "alice", verdict.Identity.Username)
}

func TestVerify_WrongSignature(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.AddCookie(signedCookie(t, "another-secret", "acct-1", "alice", 15*time.Minute))

	verdict := Verify(req, token.NewVerifier(authTestSecret))
	assert.Equal(t, Rejected, verdict.State)
	assert.NotEmpty(t, verdict.Reason)
}

func TestVerify_Expired(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.AddCookie(signedCookie(t, authTestSecret, "acct-1", "alice", -time.Minute))

	verdict := Verify(req, token.NewVerifier(authTestSecret))
	assert.Equal(t, Rejected, verdict.State)
}

func TestAuthenticate_PassesIdentity(t *testing.T) {
	var got Identity
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Authenticate(token.NewVerifier(authTestSecret), authTestLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.AddCookie(signedCookie(t, authTestSecret, "acct-7", "bob", 15*time.Minute))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, "acct-7", got.AccountID)
	assert.Equal(t, "bob", got.Username)
}

func TestAuthenticate_NoToken401(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})
	handler := Authenticate(token.NewVerifier(authTestSecret), authTestLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body["error"]["code"])
}

func TestAuthenticate_BadToken401(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a rejected token")
	})
	handler := Authenticate(token.NewVerifier(authTestSecret), authTestLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.AddCookie(&http.Cookie{Name: session.AccessCookie, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_SESSION", body["error"]["code"])
	// The rejection reason stays server-side.
	assert.NotContains(t, rec.Body.String(), "parse access token")
}
