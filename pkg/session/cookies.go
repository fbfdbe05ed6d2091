// Package session moves tokens between the identity service and clients as
// scoped cookies. The cookie layer treats token values as opaque strings; it
// carries no identity of its own.
package session

import (
	"net/http"
	"time"
)

// Cookie names shared across the identity service and the routing fabric's
// public origin.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// CookieWriter sets and clears the session cookie pair with a fixed policy:
// HttpOnly, SameSite=Strict, Path=/, Secure when the public origin is served
// over encrypted transport.
type CookieWriter struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCookieWriter creates a cookie writer. secure must be true whenever the
// public origin uses TLS.
func NewCookieWriter(secure bool, accessTTL, refreshTTL time.Duration) *CookieWriter {
	return &CookieWriter{
		secure:     secure,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Set writes both session cookies on the response.
func (c *CookieWriter) Set(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, c.cookie(AccessCookie, accessToken, int(c.accessTTL.Seconds())))
	http.SetCookie(w, c.cookie(RefreshCookie, refreshToken, int(c.refreshTTL.Seconds())))
}

// Clear expires both session cookies immediately. It is safe to call whether
// or not the client presented them.
func (c *CookieWriter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(AccessCookie, "", -1))
	http.SetCookie(w, c.cookie(RefreshCookie, "", -1))
}

func (c *CookieWriter) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ReadAccess returns the access token cookie value, if present.
func ReadAccess(r *http.Request) (string, bool) {
	return read(r, AccessCookie)
}

// ReadRefresh returns the refresh token cookie value, if present.
func ReadRefresh(r *http.Request) (string, bool) {
	return read(r, RefreshCookie)
}

func read(r *http.Request, name string) (string, bool) {
	ck, err := r.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}
