// Package auth mints and parses the signed bearer credentials issued at
// login. A credential is only half of the authentication decision: the
// token_version it embeds must still match the account's current stored
// version, which the HTTP middleware checks with a live read.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/higherpolynomia/backend/internal/common"
)

// Claims embeds the standard registered claims plus the account identity
// and the token_version snapshot taken at issuance.
type Claims struct {
	jwt.RegisteredClaims
	AccountID    string `json:"account_id"`
	Email        string `json:"email"`
	TokenVersion int64  `json:"token_version"`
}

// GenerateToken mints an HS256-signed credential for the account with the
// given (post-increment) token version and validity window.
func GenerateToken(accountID, email string, tokenVersion int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		AccountID:    accountID,
		Email:        email,
		TokenVersion: tokenVersion,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry and returns the embedded
// claims. Expiry is reported as common.ErrTokenExpired; any other structural
// or signature problem as common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
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
