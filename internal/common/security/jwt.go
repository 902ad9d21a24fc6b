package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and verifies bearer tokens. It is constructed once at
// startup from the loaded configuration and passed down explicitly.
type TokenIssuer struct {
	Auth   *jwtauth.JWTAuth
	expiry time.Duration
}

func NewTokenIssuer(secret []byte, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		Auth:   jwtauth.New("HS256", secret, nil),
		expiry: expiry,
	}
}

func (t *TokenIssuer) GenerateToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(t.expiry).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := t.Auth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
