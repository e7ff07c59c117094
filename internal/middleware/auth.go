// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Wendyydxiao/personalfinaceapp/internal/models"
)

type ctxKey string

const authKey ctxKey = "auth"

// AuthState classifies the outcome of credential resolution for a request.
type AuthState int

const (
	// Anonymous means no credential was presented.
	Anonymous AuthState = iota
	// Authenticated means a credential was presented and verified.
	Authenticated
	// InvalidCredential means a credential was presented but failed
	// verification (malformed, bad signature, or expired). Keeping this
	// distinct from Anonymous lets resolvers reject a failed attempt
	// instead of silently degrading it to no attempt.
	InvalidCredential
)

// AuthResult is the per-request identity resolution attached to the context.
type AuthResult struct {
	// State is the resolution outcome.
	State AuthState
	// Identity is populated only when State is Authenticated.
	Identity models.Identity
}

// TokenVerifier verifies a bearer credential and returns the embedded identity.
type TokenVerifier interface {
	Verify(raw string) (models.Identity, error)
}

// Auth returns a middleware that extracts a bearer credential from the
// request and attaches an AuthResult to the request context.
//
// The credential is looked up, in order of precedence, in the Authorization
// header, the "token" query parameter, and the "token" cookie; a leading
// "Bearer " prefix is stripped if present. A missing credential yields an
// Anonymous result; a failing one yields InvalidCredential. The middleware
// never rejects the request itself — enforcement is left to the resolvers,
// which know which operations are protected.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractToken(r)

			result := AuthResult{State: Anonymous}
			if raw != "" {
				if identity, err := verifier.Verify(raw); err != nil {
					result = AuthResult{State: InvalidCredential}
				} else {
					result = AuthResult{State: Authenticated, Identity: identity}
				}
			}

			ctx := context.WithValue(r.Context(), authKey, result)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the raw credential from the request, header first,
// then query parameter, then cookie.
func extractToken(r *http.Request) string {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		raw = r.URL.Query().Get("token")
	}
	if raw == "" {
		if c, err := r.Cookie("token"); err == nil {
			raw = c.Value
		}
	}
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, "Bearer "); ok {
		raw = strings.TrimSpace(rest)
	}
	return raw
}

// AuthFromContext extracts the AuthResult from the request context.
// Returns an Anonymous result if none was attached.
func AuthFromContext(ctx context.Context) AuthResult {
	if result, ok := ctx.Value(authKey).(AuthResult); ok {
		return result
	}
	return AuthResult{State: Anonymous}
}

// WithAuthResult returns a context carrying the given AuthResult.
// Intended for tests and for non-HTTP callers of the resolver layer.
func WithAuthResult(ctx context.Context, result AuthResult) context.Context {
	return context.WithValue(ctx, authKey, result)
}
