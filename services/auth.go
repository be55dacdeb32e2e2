package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"typograph/logger"
	"typograph/models"
)

// UserStore is the slice of the content store the authenticator needs.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticator guards every remote procedure. A false result yields a
// uniform authentication fault before any handler logic runs.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) bool
}

// AuthService checks credentials against the users collection.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) bool {
	if username == "" || password == "" {
		return false
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		// Unknown user and lookup failure are indistinguishable to the
		// caller on purpose.
		logger.Log.Debugf("auth lookup failed username=%s err=%v", username, err)
		return false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false
	}
	return true
}

// HashPassword produces the bcrypt hash stored for a user account.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
