package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a domain failure. The set is closed: the GraphQL boundary
// renders every non-internal kind to the client and masks KindInternal.
type Kind int

const (
	// KindInternal covers store failures, hashing and signing errors, and bugs.
	KindInternal Kind = iota
	// KindValidation is malformed or rejected user input.
	KindValidation
	// KindAuthentication covers missing or bad credentials and ownership failures.
	KindAuthentication
	// KindNotFound is a missing post, comment, or user.
	KindNotFound
	// KindConflict is a uniqueness violation such as a taken username.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Reason is a stable machine-readable code exposed as extensions.reason.
type Reason string

const (
	ReasonInvalidInput          Reason = "INVALID_INPUT"
	ReasonEmptyBody             Reason = "EMPTY_BODY"
	ReasonUserNotFound          Reason = "USER_NOT_FOUND"
	ReasonWrongCredentials      Reason = "WRONG_CREDENTIALS"
	ReasonMissingAuthHeader     Reason = "MISSING_AUTH_HEADER"
	ReasonMalformedAuthHeader   Reason = "MALFORMED_AUTH_HEADER"
	ReasonInvalidOrExpiredToken Reason = "INVALID_OR_EXPIRED_TOKEN"
	ReasonAdminCredentials      Reason = "ADMIN_CREDENTIALS"
	ReasonForbidden             Reason = "FORBIDDEN"
	ReasonNotFound              Reason = "NOT_FOUND"
	ReasonUsernameTaken         Reason = "USERNAME_TAKEN"
	ReasonEmailTaken            Reason = "EMAIL_TAKEN"
	ReasonInternal              Reason = "INTERNAL"
)

// Error is the typed domain error returned by services.
// MsgID and Fields values are i18n message ids, translated only at the API boundary.
type Error struct {
	Kind   Kind
	Reason Reason
	MsgID  string
	Data   map[string]any
	// Fields maps an input field name to the message id describing its problem.
	Fields map[string]string
	Cause  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Reason))
	if e.MsgID != "" {
		b.WriteString(": ")
		b.WriteString(e.MsgID)
	}
	if len(e.Data) > 0 {
		fmt.Fprintf(&b, " %v", e.Data)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match a typed error against the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrInvalidInput:
		return e.Kind == KindValidation
	case ErrUnauthorized:
		return e.Kind == KindAuthentication && e.Reason != ReasonForbidden
	case ErrForbidden:
		return e.Reason == ReasonForbidden
	case ErrAlreadyExists:
		return e.Kind == KindConflict
	case ErrSystem:
		return e.Kind == KindInternal
	}
	return false
}

// Code is the GraphQL extensions.code for the error.
func (e *Error) Code() string {
	switch e.Kind {
	case KindValidation:
		return "BAD_USER_INPUT"
	case KindAuthentication:
		if e.Reason == ReasonForbidden {
			return "FORBIDDEN"
		}
		return "UNAUTHENTICATED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// As extracts a typed error from err's chain.
func As(err error) (*Error, bool) {
	var typed *Error
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}

// KindOf reports the kind of err, KindInternal for untyped errors.
func KindOf(err error) Kind {
	if typed, ok := As(err); ok {
		return typed.Kind
	}
	return KindInternal
}

// Validation reports rejected input. fields may be nil.
func Validation(reason Reason, msgID string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, MsgID: msgID, Fields: fields}
}

// Unauthenticated reports missing or unusable credentials.
func Unauthenticated(reason Reason, msgID string, fields map[string]string) *Error {
	return &Error{Kind: KindAuthentication, Reason: reason, MsgID: msgID, Fields: fields}
}

// Forbidden reports an ownership failure.
func Forbidden(msgID string) *Error {
	return &Error{Kind: KindAuthentication, Reason: ReasonForbidden, MsgID: msgID}
}

// NotFound reports a missing entity. entity is a lower-case kind such as "post".
func NotFound(msgID, entity string, id any) *Error {
	return &Error{
		Kind:   KindNotFound,
		Reason: ReasonNotFound,
		MsgID:  msgID,
		Data:   map[string]any{"Entity": entity, "ID": id},
	}
}

// Conflict reports a uniqueness violation.
func Conflict(reason Reason, msgID string, fields map[string]string) *Error {
	return &Error{Kind: KindConflict, Reason: reason, MsgID: msgID, Fields: fields}
}

// Internal wraps an unexpected failure. It is never shown to clients.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Reason: ReasonInternal, Cause: errors.Join(ErrSystem, cause)}
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}
