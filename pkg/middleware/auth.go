package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Kapil218/fullstack-devops/pkg/logger"
	"github.com/Kapil218/fullstack-devops/pkg/session"
	"github.com/Kapil218/fullstack-devops/pkg/token"
)

type contextKeyType string

const identityKey contextKeyType = "identity"

// Identity is the verified identity attached to an authorized request.
// Downstream handlers must scope every read and write by AccountID; a
// client-supplied account identifier is never trusted.
type Identity struct {
	AccountID string
	Username  string
}

// VerdictState enumerates the terminal states of request verification.
type VerdictState int

const (
	// Unauthenticated: no access token cookie was presented.
	Unauthenticated VerdictState = iota
	// Rejected: a token was presented but failed signature or expiry checks.
	Rejected
	// Authorized: the token is genuine and current.
	Authorized
)

// Verdict is the tagged result of verifying one request. Identity is
// meaningful only when State is Authorized; Reason only when Rejected.
type Verdict struct {
	State    VerdictState
	Identity Identity
	Reason   string
}

// Verify inspects the request's access token cookie and classifies the
// request. The check is purely local (signature plus expiry against the
// shared secret): no store is consulted, so it never blocks on I/O.
func Verify(r *http.Request, verifier *token.Verifier) Verdict {
	raw, ok := session.ReadAccess(r)
	if !ok {
		return Verdict{State: Unauthenticated}
	}

	claims, err := verifier.Verify(raw)
	if err != nil {
		return Verdict{State: Rejected, Reason: err.Error()}
	}

	return Verdict{
		State: Authorized,
		Identity: Identity{
			AccountID: claims.AccountID,
			Username:  claims.Username,
		},
	}
}

// Authenticate returns middleware that runs Verify on every request and
// dispatches on the verdict: authorized requests continue with the identity
// in context, everything else is answered with 401 and never reaches the
// handler. The rejection reason is logged server-side only.
func Authenticate(verifier *token.Verifier, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verdict := Verify(r, verifier)

			switch verdict.State {
			case Authorized:
				ctx := context.WithValue(r.Context(), identityKey, verdict.Identity)
				ctx = logger.WithAccountID(ctx, verdict.Identity.AccountID)
				next.ServeHTTP(w, r.WithContext(ctx))

			case Unauthenticated:
				writeAuthError(w, "UNAUTHORIZED", "authentication required")

			case Rejected:
				l.WarnContext(r.Context(), "access token rejected",
					slog.String("path", r.URL.Path),
					slog.String("reason", verdict.Reason),
				)
				writeAuthError(w, "INVALID_SESSION", "session is invalid or expired")
			}
		})
	}
}

// IdentityFromContext extracts the verified identity placed by Authenticate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// ContextWithIdentity returns a context carrying the given identity. Intended
// for handler tests that bypass the middleware.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
