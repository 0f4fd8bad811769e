package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordMismatch = errors.New("password does not match")
	ErrPasswordTooLong  = errors.New("password exceeds 72 bytes")
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	ModeBcrypt    = "bcrypt"
	ModePlaintext = "plaintext"
)

// PasswordHasher turns a password into its stored form and checks candidates against it
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(stored, password string) error
}

// NewPasswordHasher returns the hasher for PASSWORD_MODE
func NewPasswordHasher(mode string) (PasswordHasher, error) {
	switch mode {
	case ModeBcrypt, "":
		return BcryptHasher{Cost: DefaultCost}, nil
	case ModePlaintext:
		return PlaintextHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password mode %q", mode)
	}
}

// BcryptHasher stores bcrypt hashes
type BcryptHasher struct {
	Cost int
}

// Hash generates a bcrypt hash of the password
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}

	return string(hashedBytes), nil
}

// Verify checks if the provided password matches the hash
func (h BcryptHasher) Verify(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}

// PlaintextHasher stores passwords as given and compares them byte for byte.
// It exists for databases seeded before hashing was introduced.
type PlaintextHasher struct{}

func (PlaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

func (PlaintextHasher) Verify(stored, password string) error {
	if stored != password {
		return ErrPasswordMismatch
	}
	return nil
}
