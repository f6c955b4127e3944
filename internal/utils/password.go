package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooShort is returned by ValidatePassword for secrets under the
// minimum length.  Handlers surface it as a field-level validation error.
var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// ValidatePassword enforces the minimum password policy shared by register
// and staff-creation endpoints.
func ValidatePassword(plain string) error {
	if len(plain) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
