package graph

import (
	"github.com/Wendyydxiao/personalfinaceapp/internal/apperr"
)

// resolverError carries the apperr code into the GraphQL error extensions,
// so every failure reaches the client as a structured payload with a
// machine-readable code next to the message.
type resolverError struct {
	err error
}

// Error returns the user-facing message.
func (e resolverError) Error() string {
	return e.err.Error()
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e resolverError) Unwrap() error {
	return e.err
}

// Extensions implements gqlerrors.ExtendedError.
func (e resolverError) Extensions() map[string]any {
	return map[string]any{"code": string(apperr.CodeOf(e.err))}
}

// gqlError wraps a service error for the GraphQL response. Internal errors
// keep their descriptive message but never expose the underlying cause.
func gqlError(err error) error {
	if err == nil {
		return nil
	}
	return resolverError{err: err}
}
