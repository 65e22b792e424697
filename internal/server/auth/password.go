package auth

import (
	"errors"
	"unicode"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword returns the bcrypt hash of password. A cost outside bcrypt's
// accepted range falls back to DefaultBcryptCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ComparePassword returns common.ErrorUnauthenticated when password does not
// match hash.
func ComparePassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrorUnauthenticated
	}
	return err
}

// ValidatePasswordStrength lists what password is missing: at least eight
// characters with a lowercase letter, an uppercase letter, a digit and a
// symbol. Passwords longer than MaxPasswordBytes are rejected too.
func ValidatePasswordStrength(password string) []string {
	var lower, upper, digit, special bool
	n := 0
	for _, r := range password {
		n++
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	var problems []string
	if n < 8 {
		problems = append(problems, "password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordBytes {
		problems = append(problems, "password must be at most 72 bytes long")
	}
	if !lower {
		problems = append(problems, "password must contain a lowercase letter")
	}
	if !upper {
		problems = append(problems, "password must contain an uppercase letter")
	}
	if !digit {
		problems = append(problems, "password must contain a digit")
	}
	if !special {
		problems = append(problems, "password must contain a special character")
	}
	return problems
}
