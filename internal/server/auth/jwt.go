package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/roles"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the actor snapshot inside an access token.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

// GenerateToken signs an HS256 access token for actor valid for validity.
func GenerateToken(actor *Actor, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		AccountID: actor.ID,
		Email:     actor.Email,
		Name:      actor.Name,
		Role:      string(actor.Role),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ParseToken verifies tokenString and returns the actor it carries.
// Expired tokens yield common.ErrTokenExpired; anything else that fails
// verification yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Actor, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.AccountID == "" {
		return nil, common.ErrInvalidToken
	}

	return &Actor{
		ID:    claims.AccountID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  roles.Role(claims.Role),
	}, nil
}
