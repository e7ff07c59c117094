// Package apperr defines the typed error taxonomy surfaced through the API.
// Each error carries a machine-readable code that the GraphQL layer exposes
// in the error extensions, so clients can branch on the failure kind.
package apperr

import "errors"

// Code identifies the kind of failure.
type Code string

const (
	// CodeConflict signals a duplicate unique field (e.g. email already registered).
	CodeConflict Code = "CONFLICT"
	// CodeAuthentication signals bad credentials or a missing/invalid token
	// on a protected operation.
	CodeAuthentication Code = "UNAUTHENTICATED"
	// CodeAuthorization signals an identity mismatch against a resource owner.
	CodeAuthorization Code = "FORBIDDEN"
	// CodeNotFound signals that an id has no matching record.
	CodeNotFound Code = "NOT_FOUND"
	// CodeValidation signals malformed input.
	CodeValidation Code = "BAD_USER_INPUT"
	// CodeInternal signals a store-layer or otherwise unexpected fault.
	CodeInternal Code = "INTERNAL_SERVER_ERROR"
)

// Error is an API-visible error with a code and a user-facing message.
type Error struct {
	Code    Code
	Message string
	// cause is the wrapped underlying error, if any.
	cause error
}

// Error returns the user-facing message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// New returns an Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap returns an Error with the given code and message wrapping cause.
func Wrap(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, cause: cause}
}

// Conflict reports a duplicate unique field.
func Conflict(msg string) *Error { return New(CodeConflict, msg) }

// Authentication reports bad or missing credentials.
func Authentication(msg string) *Error { return New(CodeAuthentication, msg) }

// Authorization reports an ownership mismatch.
func Authorization(msg string) *Error { return New(CodeAuthorization, msg) }

// NotFound reports a missing record.
func NotFound(msg string) *Error { return New(CodeNotFound, msg) }

// Validation reports malformed input.
func Validation(msg string) *Error { return New(CodeValidation, msg) }

// Internal reports an unexpected fault, hiding the cause from the client.
func Internal(msg string, cause error) *Error {
	return Wrap(CodeInternal, msg, cause)
}

// CodeOf extracts the Code from err, or CodeInternal if err is not an *Error.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
