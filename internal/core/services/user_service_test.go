package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xzzpig/postboard/internal/core/auth"
	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/core/validation"
	"github.com/xzzpig/postboard/internal/i18n"
)

func requireReason(t *testing.T, err error, kind errs.Kind, reason errs.Reason) *errs.Error {
	t.Helper()
	require.Error(t, err)
	typed, ok := errs.As(err)
	require.True(t, ok, "expected typed error, got %v", err)
	assert.Equal(t, kind, typed.Kind)
	assert.Equal(t, reason, typed.Reason)
	return typed
}

func TestUserService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("Register", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			res, err := env.Users.Register(ctx, RegisterInput{
				Username: "alice1", Email: "a@b.com", Password: "Abcdef1!", ConfirmPassword: "Abcdef1!",
			})
			require.NoError(t, err)
			assert.Equal(t, "alice1", res.User.Username)
			assert.NotEqual(t, "Abcdef1!", res.User.Password, "password must be hashed")
			assert.NotEmpty(t, res.Token)

			id, err := env.Codec.Verify(res.Token)
			require.NoError(t, err)
			assert.Equal(t, auth.Identity{ID: res.User.ID, Email: "a@b.com", Username: "alice1"}, id)
		})

		t.Run("UsernameTakenBeforeValidation", func(t *testing.T) {
			_, err := env.Users.Register(ctx, RegisterInput{Username: "alice1", Email: "", Password: "", ConfirmPassword: "x"})
			typed := requireReason(t, err, errs.KindConflict, errs.ReasonUsernameTaken)
			assert.Equal(t, map[string]string{validation.FieldUsername: i18n.FieldUsernameTaken}, typed.Fields)
		})

		t.Run("UsernameTakenWithValidInput", func(t *testing.T) {
			_, err := env.Users.Register(ctx, RegisterInput{
				Username: "alice1", Email: "other@b.com", Password: "Abcdef1!", ConfirmPassword: "Abcdef1!",
			})
			requireReason(t, err, errs.KindConflict, errs.ReasonUsernameTaken)
		})

		t.Run("EmailTaken", func(t *testing.T) {
			_, err := env.Users.Register(ctx, RegisterInput{
				Username: "alice2", Email: "a@b.com", Password: "Abcdef1!", ConfirmPassword: "Abcdef1!",
			})
			typed := requireReason(t, err, errs.KindConflict, errs.ReasonEmailTaken)
			assert.Equal(t, "CONFLICT", typed.Code())
			assert.Contains(t, typed.Fields, validation.FieldEmail)
		})

		t.Run("ValidationErrors", func(t *testing.T) {
			_, err := env.Users.Register(ctx, RegisterInput{
				Username: "bob", Email: "bad", Password: "short", ConfirmPassword: "other",
			})
			typed := requireReason(t, err, errs.KindValidation, errs.ReasonInvalidInput)
			assert.Equal(t, i18n.FieldEmailInvalid, typed.Fields[validation.FieldEmail])
			assert.Equal(t, i18n.FieldPasswordTooShort, typed.Fields[validation.FieldPassword])
			assert.Equal(t, i18n.FieldPasswordsMismatch, typed.Fields[validation.FieldConfirmPassword])
			assert.Equal(t, 1, env.count(t, "users"))
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("RoundTrip", func(t *testing.T) {
			res, err := env.Users.Login(ctx, "alice1", "Abcdef1!")
			require.NoError(t, err)
			id, err := env.Codec.Verify(res.Token)
			require.NoError(t, err)
			assert.Equal(t, res.User.ID, id.ID)
			assert.Equal(t, "alice1", id.Username)
			assert.Equal(t, "a@b.com", id.Email)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			for _, pw := range []string{"Abcdef1?", "abcdef1!", "x"} {
				_, err := env.Users.Login(ctx, "alice1", pw)
				typed := requireReason(t, err, errs.KindValidation, errs.ReasonWrongCredentials)
				assert.Equal(t, map[string]string{validation.FieldWrongCredentials: i18n.FieldWrongCredentials}, typed.Fields)
			}
		})

		t.Run("UnknownUser", func(t *testing.T) {
			_, err := env.Users.Login(ctx, "nobody", "Abcdef1!")
			typed := requireReason(t, err, errs.KindValidation, errs.ReasonUserNotFound)
			assert.Contains(t, typed.Fields, validation.FieldNotFound)
		})

		t.Run("InvalidInput", func(t *testing.T) {
			_, err := env.Users.Login(ctx, "", "")
			typed := requireReason(t, err, errs.KindValidation, errs.ReasonInvalidInput)
			assert.Len(t, typed.Fields, 2)
			assert.Equal(t, "BAD_USER_INPUT", typed.Code())
		})
	})
}
