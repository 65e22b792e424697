package auth

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("Sk0ll&Hati", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Sk0ll&Hati", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	require.NoError(t, ComparePassword(hash, "Sk0ll&Hati"))
	require.ErrorIs(t, ComparePassword(hash, "wrong"), common.ErrorUnauthenticated)
}

func TestHashPassword_CostOutOfRange(t *testing.T) {
	hash, err := HashPassword("x", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestComparePassword_MalformedHash(t *testing.T) {
	err := ComparePassword("not-a-hash", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorUnauthenticated)
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.Empty(t, ValidatePasswordStrength("Sk0ll&Hati"))
	assert.Equal(t, []string{"password must be at least 8 characters long"}, ValidatePasswordStrength("Ab1!"))
	assert.Equal(t, []string{
		"password must contain an uppercase letter",
		"password must contain a digit",
		"password must contain a special character",
	}, ValidatePasswordStrength("longlowercase"))
	assert.Len(t, ValidatePasswordStrength(""), 5)
}

func TestValidatePasswordStrength_TooLong(t *testing.T) {
	long := "Aa1!" + strings.Repeat("x", 80)
	assert.Equal(t, []string{"password must be at most 72 bytes long"}, ValidatePasswordStrength(long))

	atLimit := "Aa1!" + strings.Repeat("x", MaxPasswordBytes-4)
	assert.Empty(t, ValidatePasswordStrength(atLimit))

	_, err := HashPassword(atLimit, bcrypt.MinCost)
	require.NoError(t, err)
}
