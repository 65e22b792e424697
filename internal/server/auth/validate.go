package auth

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,16}$`)

// ValidateHandle reports whether s is a valid game handle: 3 to 16 letters,
// digits or underscores.
func ValidateHandle(s string) bool {
	return handlePattern.MatchString(s)
}

// ValidateGameUUID accepts the dashed 8-4-4-4-12 hexadecimal form only.
func ValidateGameUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail accepts a bare address, without display name.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
