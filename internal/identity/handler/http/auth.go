package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Kapil218/fullstack-devops/internal/identity/service"
	apperrors "github.com/Kapil218/fullstack-devops/pkg/errors"
	"github.com/Kapil218/fullstack-devops/pkg/httputil"
	"github.com/Kapil218/fullstack-devops/pkg/middleware"
	"github.com/Kapil218/fullstack-devops/pkg/session"
	"github.com/Kapil218/fullstack-devops/pkg/validator"
)

// AuthHandler handles HTTP requests for identity endpoints. Tokens travel to
// the client only as cookies; response bodies never carry them.
type AuthHandler struct {
	service *service.AuthService
	cookies *session.CookieWriter
	logger  *slog.Logger
}

// NewAuthHandler creates a new identity HTTP handler.
func NewAuthHandler(svc *service.AuthService, cookies *session.CookieWriter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, cookies: cookies, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for account registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the JSON request body for account login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the JSON request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// --- Response DTOs ---

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// --- Handlers ---

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	account, err := h.service.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: AccountResponse{
			ID:        account.ID,
			Username:  account.Username,
			Email:     account.Email,
			CreatedAt: account.CreatedAt.Format(timeFormat),
		},
	})
}

// Login handles POST /login. On success both session cookies are set.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	account, sess, err := h.service.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.cookies.Set(w, sess.AccessToken, sess.RefreshToken)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: AccountResponse{
			ID:        account.ID,
			Username:  account.Username,
			Email:     account.Email,
			CreatedAt: account.CreatedAt.Format(timeFormat),
		},
	})
}

// Refresh handles POST /refresh-token. The refresh value is read from its
// cookie, rotated, and both cookies are replaced.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshValue, ok := session.ReadRefresh(r)
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("refresh token is required"), h.logger)
		return
	}

	account, sess, err := h.service.Refresh(r.Context(), refreshValue)
	if err != nil {
		// A failed rotation leaves the client without a usable session.
		h.cookies.Clear(w)
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.cookies.Set(w, sess.AccessToken, sess.RefreshToken)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: AccountResponse{
			ID:        account.ID,
			Username:  account.Username,
			Email:     account.Email,
			CreatedAt: account.CreatedAt.Format(timeFormat),
		},
	})
}

// Logout handles POST /logout. Cookies are cleared unconditionally; server
// state is cleared when the presented token still matches.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	refreshValue, _ := session.ReadRefresh(r)

	err := h.service.Logout(r.Context(), refreshValue)

	h.cookies.Clear(w)

	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: MessageResponse{Message: "logged out"},
	})
}

// Profile handles GET /profile. Mounted behind the verification middleware;
// the account ID comes from the verified token, never from the request.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	account, err := h.service.Profile(r.Context(), identity.AccountID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: AccountResponse{
			ID:        account.ID,
			Username:  account.Username,
			Email:     account.Email,
			CreatedAt: account.CreatedAt.Format(timeFormat),
		},
	})
}

// ChangePassword handles POST /change-password (authenticated).
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), identity.AccountID, req.CurrentPassword, req.NewPassword); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// All sessions are revoked; the caller must log in again.
	h.cookies.Clear(w)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: MessageResponse{Message: "password changed"},
	})
}

// timeFormat is RFC 3339 with second precision for created_at fields.
const timeFormat = "2006-01-02T15:04:05Z07:00"
