// Package auth holds the security primitives of the service: access token
// issuing and validation, password hashing and the admin gate.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultAlgorithm is used when alg is empty.
const DefaultAlgorithm = "HS256"

var ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

// SigningMethod resolves alg to an HMAC signing method. Only HS256, HS384 and
// HS512 are accepted since tokens are signed with a shared secret.
func SigningMethod(alg string) (*jwt.SigningMethodHMAC, error) {
	if alg == "" {
		alg = DefaultAlgorithm
	}
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
}

// IssueToken signs a token with alg carrying subject in "sub" and expiresAt
// in "exp".
func IssueToken(subject string, expiresAt time.Time, secretKey []byte, alg string) (string, error) {
	method, err := SigningMethod(alg)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GenerateToken issues a token for userID valid for validityDuration.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration, alg string) (string, error) {
	return IssueToken(userID, time.Now().Add(validityDuration), secretKey, alg)
}

// GetUserIDFromToken validates tokenString and returns its subject. Only
// tokens signed with alg are accepted. Every failure (bad signature, other
// algorithm, malformed or expired token, missing subject) is reported as
// common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte, alg string) (string, error) {
	method, err := SigningMethod(alg)
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{method.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
