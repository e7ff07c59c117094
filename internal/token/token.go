// Package token signs and verifies the bearer credentials that prove user
// identity. The service is stateless: a token is a pure function of the
// identity, the signing secret, and the clock.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Wendyydxiao/personalfinaceapp/internal/models"
)

// TTL is the lifetime of an issued token.
const TTL = time.Hour

// ErrInvalidToken is returned by Verify for any token that cannot be
// accepted: malformed, signature mismatch, or expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// claims embeds the identity under a "data" key alongside standard
// registered claims, mirroring the wire shape the client already expects.
type claims struct {
	Data models.Identity `json:"data"`
	jwt.RegisteredClaims
}

// Service issues and verifies HMAC-signed bearer tokens.
type Service struct {
	secret []byte
	// now is the clock, overridable in tests.
	now func() time.Time
}

// New constructs a Service signing with the given secret.
func New(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// Sign produces a compact signed credential embedding the identity with an
// absolute expiry of TTL from issuance.
func (s *Service) Sign(identity models.Identity) (string, error) {
	now := s.now()
	c := claims{
		Data: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Verify checks signature validity and expiry, returning the embedded
// identity on success. All failure modes collapse to ErrInvalidToken;
// Verify never panics past its own boundary.
func (s *Service) Verify(raw string) (models.Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return models.Identity{}, ErrInvalidToken
	}
	return c.Data, nil
}
