// Package service provides business-logic services for authentication and
// personal-finance operations, delegating persistence to repository
// interfaces.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Wendyydxiao/personalfinaceapp/internal/apperr"
	"github.com/Wendyydxiao/personalfinaceapp/internal/models"
	"github.com/Wendyydxiao/personalfinaceapp/internal/repository"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// Create inserts a new user, returning repository.ErrDuplicate when the
	// email or username is already registered.
	Create(ctx context.Context, user *models.User) error
	// FindByID fetches a user by id, returning repository.ErrNotFound if absent.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByEmail fetches a user by email, returning repository.ErrNotFound if absent.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdatePasswordHash overwrites the stored password hash.
	UpdatePasswordHash(ctx context.Context, id string, hash []byte) error
}

// TokenSigner issues a bearer credential for an identity.
type TokenSigner interface {
	Sign(identity models.Identity) (string, error)
}

// dummyHash is a valid bcrypt hash compared against when login hits an
// unknown email, so the failure path does the same hashing work whether or
// not the account exists.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// AuthService implements signup, login, and password update.
type AuthService struct {
	users  UserRepository
	tokens TokenSigner
	// now is the clock, overridable in tests.
	now func() time.Time
}

// NewAuthService constructs an AuthService with the given repository and
// token signer.
func NewAuthService(users UserRepository, tokens TokenSigner) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

// Signup registers a new user and issues a bearer token for it.
// Fails with a conflict error if the email (or username) is already taken,
// and with a validation error on malformed input. The password is stored
// only as a bcrypt hash.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (string, *models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return "", nil, apperr.Validation("username is required")
	}
	if !models.ValidEmail(email) {
		return "", nil, apperr.Validation("email must be a valid email address")
	}
	if !models.ValidPassword(password) {
		return "", nil, apperr.Validation("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, apperr.Internal("unable to create user", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, apperr.Conflict("email already in use")
		}
		return "", nil, apperr.Internal("unable to create user", err)
	}

	tok, err := s.tokens.Sign(identityOf(user))
	if err != nil {
		return "", nil, apperr.Internal("unable to issue token", err)
	}
	return tok, user, nil
}

// Login authenticates a user by email and password and issues a bearer
// token. Unknown email and wrong password both fail with the same
// authentication error, after the same amount of hash-comparison work.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn the same comparison work as the known-email path.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", nil, apperr.Authentication("invalid email or password")
		}
		return "", nil, apperr.Internal("unable to login", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, apperr.Authentication("invalid email or password")
	}

	tok, err := s.tokens.Sign(identityOf(user))
	if err != nil {
		return "", nil, apperr.Internal("unable to issue token", err)
	}
	return tok, user, nil
}

// UpdatePassword rehashes and overwrites the password of the identified
// user, returning a confirmation message.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, newPassword string) (string, error) {
	if !models.ValidPassword(newPassword) {
		return "", apperr.Validation("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal("unable to update password", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.NotFound("user not found")
		}
		return "", apperr.Internal("unable to update password", err)
	}
	return "password updated successfully", nil
}

// identityOf extracts the token identity from a user record.
func identityOf(user *models.User) models.Identity {
	return models.Identity{ID: user.ID, Username: user.Username, Email: user.Email}
}
