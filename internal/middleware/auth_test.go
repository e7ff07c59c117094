package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Wendyydxiao/personalfinaceapp/internal/models"
)

// fakeVerifier implements TokenVerifier for testing.
type fakeVerifier struct {
	identity models.Identity
	err      error
	// gotRaw records the credential passed to Verify.
	gotRaw string
}

func (f *fakeVerifier) Verify(raw string) (models.Identity, error) {
	f.gotRaw = raw
	return f.identity, f.err
}

func TestAuth_States(t *testing.T) {
	alice := models.Identity{ID: "u1", Username: "alice", Email: "a@x.com"}

	tests := []struct {
		name      string
		prepare   func(r *http.Request)
		verifier  *fakeVerifier
		wantState AuthState
		wantID    string
		wantRaw   string
	}{
		{
			name:      "no credential is anonymous",
			prepare:   func(r *http.Request) {},
			verifier:  &fakeVerifier{},
			wantState: Anonymous,
		},
		{
			name: "valid header credential",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer tok123")
			},
			verifier:  &fakeVerifier{identity: alice},
			wantState: Authenticated,
			wantID:    "u1",
			wantRaw:   "tok123",
		},
		{
			name: "header without Bearer prefix",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "tok123")
			},
			verifier:  &fakeVerifier{identity: alice},
			wantState: Authenticated,
			wantID:    "u1",
			wantRaw:   "tok123",
		},
		{
			name: "invalid credential is not anonymous",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer expired")
			},
			verifier:  &fakeVerifier{err: errors.New("invalid or expired token")},
			wantState: InvalidCredential,
			wantRaw:   "expired",
		},
		{
			name: "query parameter fallback",
			prepare: func(r *http.Request) {
				q := r.URL.Query()
				q.Set("token", "fromquery")
				r.URL.RawQuery = q.Encode()
			},
			verifier:  &fakeVerifier{identity: alice},
			wantState: Authenticated,
			wantRaw:   "fromquery",
		},
		{
			name: "cookie fallback",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "token", Value: "fromcookie"})
			},
			verifier:  &fakeVerifier{identity: alice},
			wantState: Authenticated,
			wantRaw:   "fromcookie",
		},
		{
			name: "header takes precedence over cookie",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer fromheader")
				r.AddCookie(&http.Cookie{Name: "token", Value: "fromcookie"})
			},
			verifier:  &fakeVerifier{identity: alice},
			wantState: Authenticated,
			wantRaw:   "fromheader",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got AuthResult
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = AuthFromContext(r.Context())
			})

			req := httptest.NewRequest("POST", "/graphql", nil)
			tt.prepare(req)

			Auth(tt.verifier)(inner).ServeHTTP(httptest.NewRecorder(), req)

			if got.State != tt.wantState {
				t.Fatalf("state = %v; want %v", got.State, tt.wantState)
			}
			if tt.wantID != "" && got.Identity.ID != tt.wantID {
				t.Errorf("identity id = %q; want %q", got.Identity.ID, tt.wantID)
			}
			if tt.wantRaw != "" && tt.verifier.gotRaw != tt.wantRaw {
				t.Errorf("verifier received %q; want %q", tt.verifier.gotRaw, tt.wantRaw)
			}
		})
	}
}

func TestAuthFromContext_Missing(t *testing.T) {
	result := AuthFromContext(httptest.NewRequest("GET", "/", nil).Context())
	if result.State != Anonymous {
		t.Errorf("state = %v; want Anonymous", result.State)
	}
}
