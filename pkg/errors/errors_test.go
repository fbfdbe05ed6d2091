package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorString(t *testing.T) {
	err := InvalidInput("email is required")
	assert.Equal(t, "INVALID_INPUT: email is required", err.Error())

	wrapped := Storage(errors.New("dial tcp: connection refused"))
	assert.Contains(t, wrapped.Error(), "STORAGE_FAILURE")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestAppError_Unwrap(t *testing.T) {
	assert.ErrorIs(t, DuplicateIdentity("email", "a@x.com"), ErrDuplicateIdentity)
	assert.ErrorIs(t, InvalidCredentials(), ErrInvalidCredentials)
	assert.ErrorIs(t, InvalidSession("superseded"), ErrInvalidSession)
	assert.ErrorIs(t, Storage(errors.New("boom")), ErrStorage)
}

func TestInvalidCredentials_FixedMessage(t *testing.T) {
	// Unknown email and wrong password must produce byte-identical errors.
	a := InvalidCredentials()
	b := InvalidCredentials()
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Status, b.Status)
	assert.Equal(t, http.StatusBadRequest, a.Status)
}

func TestStorage_HidesDriverDetail(t *testing.T) {
	driverErr := errors.New("ERROR: relation \"accounts\" does not exist (SQLSTATE 42P01)")
	err := Storage(driverErr)
	assert.Equal(t, "a storage error occurred", err.Message)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error not found", NotFound("todo", "t-1"), http.StatusNotFound},
		{"app error duplicate", DuplicateIdentity("username", "alice"), http.StatusBadRequest},
		{"app error credentials", InvalidCredentials(), http.StatusBadRequest},
		{"app error unauthorized", Unauthorized("no token"), http.StatusUnauthorized},
		{"app error session", InvalidSession("expired"), http.StatusUnauthorized},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"wrapped invalid input", fmt.Errorf("parse: %w", ErrInvalidInput), http.StatusBadRequest},
		{"wrapped session", fmt.Errorf("verify: %w", ErrInvalidSession), http.StatusUnauthorized},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
