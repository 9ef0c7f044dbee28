package helpers

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword rejects blank passwords before hashing.
var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword returns the bcrypt hash stored in users.password.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PasswordMatches reports whether plain hashes to hash.
func PasswordMatches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
