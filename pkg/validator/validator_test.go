package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Username string `validate:"required,min=3,max=30,alphanum"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidate_OK(t *testing.T) {
	p := registerPayload{Username: "alice", Email: "alice@example.com", Password: "pw123456"}
	assert.NoError(t, Validate(p))
}

func TestValidate_MissingFields(t *testing.T) {
	err := Validate(registerPayload{})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Username"])
	assert.Equal(t, "is required", fields["Email"])
	assert.Equal(t, "is required", fields["Password"])
}

func TestValidate_BadEmail(t *testing.T) {
	p := registerPayload{Username: "alice", Email: "not-an-email", Password: "pw123456"}
	err := Validate(p)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}

func TestValidate_ShortPassword(t *testing.T) {
	p := registerPayload{Username: "alice", Email: "alice@example.com", Password: "pw"}
	err := Validate(p)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Error(), "Password")
	assert.Contains(t, valErr.Fields()["Password"], "at least 8")
}
