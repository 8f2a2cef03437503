package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"bookshelf/internal/models"
	"bookshelf/internal/store"
)

// ErrInvalidCredentials is returned for both an unknown username and a wrong
// password, so a caller cannot tell registered usernames apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, password string) error
	Authenticate(username, password string) (models.User, error)
}

// UserService provides registration and credential verification.
type UserService struct {
	users store.UserStore
}

// NewUserService creates a new UserService.
func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

// Register creates a new user, hashing their password. The plaintext password
// is never stored.
func (s *UserService) Register(username, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.Create(models.User{
		Username:     username,
		PasswordHash: string(hashed),
	})
}

// Authenticate verifies a user's credentials. Lookup failure and password
// mismatch are deliberately indistinguishable.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	user, err := s.users.Find(username)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}
