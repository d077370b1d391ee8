// Package validation checks login and registration input.
// Messages are i18n message ids; the API boundary translates them.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xzzpig/postboard/internal/i18n"
)

// Field names used as keys in Result.Errors and in extensions.errors.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldConfirmPassword  = "confirmPassword"
	FieldBody             = "body"
	FieldNotFound         = "notFound"
	FieldWrongCredentials = "wrongCredentials"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 8

var (
	alphanumeric = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	// Single-character domain labels such as b.com are accepted.
	emailPattern = regexp.MustCompile(`^([0-9a-zA-Z]([-.\w]*[0-9a-zA-Z])*@([0-9a-zA-Z]([-\w]*[0-9a-zA-Z])?\.)+[a-zA-Z]{2,9})$`)
	lowerCase    = regexp.MustCompile(`[a-z]`)
	upperCase    = regexp.MustCompile(`[A-Z]`)
	digit        = regexp.MustCompile(`[0-9]`)
	special      = regexp.MustCompile(`[!@#$%^&*]`)
)

// Result holds per-field message ids. Valid is true when Errors is empty.
type Result struct {
	Errors map[string]string
	Valid  bool
}

func newResult(errors map[string]string) Result {
	return Result{Errors: errors, Valid: len(errors) == 0}
}

// Login validates login input. Errors for both fields accumulate.
func Login(username, password string) Result {
	errors := map[string]string{}
	checkUsername(errors, username)
	if password == "" {
		errors[FieldPassword] = i18n.FieldPasswordEmpty
	}
	return newResult(errors)
}

// Register validates registration input.
// Only the first password rule that fails is reported; the confirmation is checked on its own.
func Register(username, email, password, confirmPassword string) Result {
	errors := map[string]string{}
	checkUsername(errors, username)

	switch {
	case strings.TrimSpace(email) == "":
		errors[FieldEmail] = i18n.FieldEmailEmpty
	case !emailPattern.MatchString(email):
		errors[FieldEmail] = i18n.FieldEmailInvalid
	}

	if msg := passwordProblem(password); msg != "" {
		errors[FieldPassword] = msg
	}
	if password != confirmPassword {
		errors[FieldConfirmPassword] = i18n.FieldPasswordsMismatch
	}
	return newResult(errors)
}

// Body validates a post or comment body.
func Body(body string) Result {
	errors := map[string]string{}
	if strings.TrimSpace(body) == "" {
		errors[FieldBody] = i18n.FieldBodyEmpty
	}
	return newResult(errors)
}

func checkUsername(errors map[string]string, username string) {
	switch {
	case strings.TrimSpace(username) == "":
		errors[FieldUsername] = i18n.FieldUsernameEmpty
	case !alphanumeric.MatchString(username):
		errors[FieldUsername] = i18n.FieldUsernameAlphanumeric
	}
}

func passwordProblem(password string) string {
	switch {
	case password == "":
		return i18n.FieldPasswordEmpty
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return i18n.FieldPasswordTooShort
	case !lowerCase.MatchString(password) || !upperCase.MatchString(password):
		return i18n.FieldPasswordCase
	case !digit.MatchString(password):
		return i18n.FieldPasswordDigit
	case !special.MatchString(password):
		return i18n.FieldPasswordSpecial
	}
	return ""
}
