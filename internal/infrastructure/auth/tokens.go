// Package auth issues and validates the HMAC-signed access tokens that
// carry the authenticated identity and role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/middleware"
)

// Token errors are the middleware sentinels so the auth middleware can
// branch on them with errors.Is.
var (
	ErrInvalidToken = middleware.ErrInvalidToken
	ErrTokenExpired = middleware.ErrTokenExpired
)

const issuer = "agora"

// TokenManager issues and validates access tokens. It implements
// middleware.TokenValidator.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
}

// TokenManagerConfig contains configuration for TokenManager.
type TokenManagerConfig struct {
	Secret string
	TTL    time.Duration
	Leeway time.Duration
}

// NewTokenManager creates a token manager from config.
func NewTokenManager(cfg TokenManagerConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &TokenManager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		leeway: cfg.Leeway,
	}, nil
}

// tokenClaims is the JWT claim set carried by access tokens.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue creates a signed token for the user.
func (m *TokenManager) Issue(userID uuid.UUID, role user.Role) (string, error) {
	if userID.IsZero() {
		return "", errors.New("userID is required")
	}

	now := time.Now()
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewUUID().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token and returns the actor claims.
func (m *TokenManager) ValidateToken(_ context.Context, tokenString string) (*middleware.TokenClaims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithLeeway(m.leeway),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.ParseUUID(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, err := user.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrInvalidToken
	}

	out := &middleware.TokenClaims{
		UserID: userID,
		Role:   role,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
