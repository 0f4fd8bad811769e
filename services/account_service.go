package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/utils/auth"
)

// ErrInvalidCredentials is returned by Login when the password does not match
var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountService checks logins and applies the password storage policy
type AccountService struct {
	users  database.UserRepository
	hasher auth.PasswordHasher
}

// NewAccountService creates a new account service
func NewAccountService(users database.UserRepository, hasher auth.PasswordHasher) *AccountService {
	return &AccountService{users: users, hasher: hasher}
}

// Login returns the profile of the user with the given email and password. An unknown
// email yields database.ErrNotFound.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.UserProfile, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Verify(user.Password, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify password of user %d: %w", user.ID, err)
	}

	profile := user.Profile()
	return &profile, nil
}

// HashPassword returns the stored form of a password
func (s *AccountService) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}
