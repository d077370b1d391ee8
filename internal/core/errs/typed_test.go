package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		sentinel error
	}{
		{"validation", Validation(ReasonEmptyBody, "error_empty_body", nil), ErrInvalidInput},
		{"unauthenticated", Unauthenticated(ReasonMissingAuthHeader, "error_missing_auth_header", nil), ErrUnauthorized},
		{"forbidden", Forbidden("error_forbidden"), ErrForbidden},
		{"not found", NotFound("error_post_not_found", "post", 7), ErrNotFound},
		{"conflict", Conflict(ReasonUsernameTaken, "error_username_taken", nil), ErrAlreadyExists},
		{"internal", Internal(errors.New("disk full")), ErrSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("resolve: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}
}

func TestError_ForbiddenIsNotUnauthorized(t *testing.T) {
	err := Forbidden("error_forbidden")
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, KindAuthentication, err.Kind)
	assert.Equal(t, "FORBIDDEN", err.Code())
}

func TestError_Code(t *testing.T) {
	assert.Equal(t, "BAD_USER_INPUT", Validation(ReasonInvalidInput, "x", nil).Code())
	assert.Equal(t, "UNAUTHENTICATED", Unauthenticated(ReasonWrongCredentials, "x", nil).Code())
	assert.Equal(t, "NOT_FOUND", NotFound("x", "comment", 1).Code())
	assert.Equal(t, "CONFLICT", Conflict(ReasonEmailTaken, "x", nil).Code())
	assert.Equal(t, "INTERNAL_SERVER_ERROR", Internal(nil).Code())
}

func TestAsAndKindOf(t *testing.T) {
	typed := NotFound("error_post_not_found", "post", int64(3))
	wrapped := fmt.Errorf("outer: %w", typed)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, typed, got)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, map[string]any{"Entity": "post", "ID": int64(3)}, got.Data)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "INTERNAL")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestConstError(t *testing.T) {
	const errBoom ConstError = "boom"
	var err error = errBoom
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, fmt.Errorf("wrap: %w", err), errBoom)
}
