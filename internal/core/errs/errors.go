package errs

import "errors"

// Sentinel errors for the domain layer.
// These errors should be used to wrap low-level errors (like DB errors)
// so that the upper layers (API/CLI) can handle them appropriately without knowing the implementation details.

// ConstError is a string error type usable in const declarations.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when the input provided is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSystem is returned when an unexpected system error occurs.
	ErrSystem = errors.New("system error")

	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrUnauthorized is returned when the caller could not be authenticated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when an authenticated caller may not perform the action.
	ErrForbidden = errors.New("forbidden")
)
