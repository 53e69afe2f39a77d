package auth

import (
	"time"

	"github.com/dokanhq/dokan/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

const tokenDuration = 24 * time.Hour

// AuthToken creates and verifies HMAC-signed JWT auth tokens.
type AuthToken struct {
	key []byte
}

// NewAuthToken creates new AuthToken instance with a signing key
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"uid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// CreateToken issues a signed token for the user.
func (at *AuthToken) CreateToken(user *models.User) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(at.key)
}

// VerifyToken parses and validates a token string, returning its payload.
func (at *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return at.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return &models.TokenPayload{
		UserID: claims.UserID,
		Name:   claims.Name,
		Email:  claims.Email,
	}, nil
}
