package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenType separates short-lived access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// TokenClaims represents the claims in a JWT token. Subject is the user's email.
type TokenClaims struct {
	jwt.RegisteredClaims
	Type TokenType `json:"typ"`
}

// LoginResponse is returned by signup, login and refresh. Expires is the access token lifetime in ms.
type LoginResponse struct {
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
}
