package domain

import "errors"

// Error kinds. Every domain error unwraps to exactly one of these, which is
// what the HTTP layer switches on.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access denied")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
)

// Error is a domain failure carrying a client-safe message and the kind it
// belongs to.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

var (
	ErrInvalidCredentials = newError(ErrUnauthorized, "Invalid username or password")
	ErrTokenExpired       = newError(ErrUnauthorized, "token expired")
	ErrTokenMalformed     = newError(ErrUnauthorized, "malformed token")
	ErrTokenSignature     = newError(ErrUnauthorized, "invalid token signature")

	ErrUserNotFound        = newError(ErrNotFound, "User not found")
	ErrTransactionNotFound = newError(ErrNotFound, "transaction not found")

	ErrDuplicateUsername = newError(ErrConflict, "Username is already taken")
	ErrDuplicateEmail    = newError(ErrConflict, "Email is already in use")
	ErrEmailInUse        = newError(ErrConflict, "Email already in use")

	ErrWrongPassword = newError(ErrValidation, "Current password is incorrect")
)

// ValidationError reports malformed input with the given message.
func ValidationError(msg string) error {
	return newError(ErrValidation, msg)
}
