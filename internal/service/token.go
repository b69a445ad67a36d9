package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/cookwithfriends/backend/internal/models"
	"github.com/pageza/cookwithfriends/backend/internal/types"
)

// UserFinder resolves a token subject to a user.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenService issues and checks HS256 session tokens. Both token types are
// signed with the same secret and carry the user's email as subject.
type TokenService struct {
	users      UserFinder
	revoked    RevocationStore
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

var _ ITokenService = (*TokenService)(nil)

// NewTokenService creates a new TokenService instance
func NewTokenService(users UserFinder, revoked RevocationStore, secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if revoked == nil {
		revoked = NewMemoryRevocationStore()
	}
	return &TokenService{
		users:      users,
		revoked:    revoked,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *TokenService) AccessExpiration() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshExpiration() time.Duration { return s.refreshTTL }

func (s *TokenService) IssueAccessToken(user *models.User) (string, error) {
	return s.issue(user, types.AccessToken, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(user *models.User) (string, error) {
	return s.issue(user, types.RefreshToken, s.refreshTTL)
}

func (s *TokenService) issue(user *models.User, typ types.TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Type: typ,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

// ParseToken verifies signature, expiry and token type.
func (s *TokenService) ParseToken(tokenString string, typ types.TokenType) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Type != typ || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Validate reports whether token belongs to user and has not expired.
func (s *TokenService) Validate(tokenString string, user *models.User) bool {
	if user == nil {
		return false
	}
	claims, err := s.ParseToken(tokenString, types.AccessToken)
	if err != nil {
		return false
	}
	return claims.Subject == user.Email && s.now().Before(claims.ExpiresAt.Time)
}

// RefreshAccessToken exchanges a valid, unrevoked refresh token for a new access token.
func (s *TokenService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}
	claims, err := s.ParseToken(refreshToken, types.RefreshToken)
	if err != nil {
		return "", err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return "", ErrTokenInvalid
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	return s.IssueAccessToken(user)
}

// RevokeRefreshToken denies further use of a refresh token until it expires.
// Tokens that do not parse are already unusable and are ignored.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	claims, err := s.ParseToken(refreshToken, types.RefreshToken)
	if err != nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Authenticate resolves the user behind an access token.
func (s *TokenService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.ParseToken(accessToken, types.AccessToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !s.Validate(accessToken, user) {
		return nil, ErrTokenInvalid
	}
	return user, nil
}
