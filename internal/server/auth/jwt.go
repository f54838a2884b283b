// Package auth issues and parses the signed session tokens of the identity
// service. Tokens are stateless and self-contained; expiry is the only
// invalidation mechanism; there is no revocation list.
package auth

import (
	"errors"
	"time"

	"github.com/gmeladze/identity-service/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the caller's identity: the registered claims plus the
// account's email and admin flag.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// GenerateToken signs an HS256 token for the given identity, expiring after
// validityDuration.
func GenerateToken(email string, isAdmin bool, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email:   email,
		IsAdmin: isAdmin,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates the token signature and lifetime and returns its
// claims. Expired tokens yield common.ErrTokenExpired; every other failure
// (malformed, wrong key, wrong algorithm) yields common.ErrInvalidToken so
// callers cannot tell the reasons apart.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
