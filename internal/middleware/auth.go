package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/agora/internal/application/authz"
	"github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
)

// Context keys for authentication data.
type contextKey string

const (
	// ContextKeyUserID is the context key for the authenticated user ID.
	ContextKeyUserID contextKey = "user_id"

	// ContextKeyRole is the context key for the authenticated user role.
	ContextKeyRole contextKey = "role"
)

// Auth errors.
var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
)

// TokenClaims represents the claims extracted from an access token.
type TokenClaims struct {
	// UserID is the authenticated user ID.
	UserID uuid.UUID

	// Role is the authenticated user role.
	Role user.Role

	// ExpiresAt is the token expiration time.
	ExpiresAt time.Time
}

// TokenValidator defines the interface for validating access tokens.
type TokenValidator interface {
	// ValidateToken validates a token and returns the claims.
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// Logger is the structured logger for auth events.
	Logger *slog.Logger

	// TokenValidator validates access tokens.
	TokenValidator TokenValidator

	// SkipPaths are paths that don't require authentication.
	SkipPaths []string
}

// Auth returns an authentication middleware with the given configuration.
// On success the actor identity and role are attached to the echo context.
func Auth(config AuthConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	skipPaths := make(map[string]struct{}, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			if _, ok := skipPaths[path]; ok {
				return next(c)
			}

			token, err := extractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return respondAuthError(c, err)
			}

			if config.TokenValidator == nil {
				config.Logger.Error("token validator not configured")
				return respondAuthError(c, ErrInvalidToken)
			}

			claims, err := config.TokenValidator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				config.Logger.Warn("token validation failed",
					slog.String("error", err.Error()),
					slog.String("path", path),
					slog.String("remote_ip", c.RealIP()),
				)
				return respondAuthError(c, err)
			}

			c.Set(string(ContextKeyUserID), claims.UserID)
			c.Set(string(ContextKeyRole), claims.Role)

			config.Logger.Debug("user authenticated",
				slog.String("user_id", claims.UserID.String()),
				slog.String("path", path),
			)
			return next(c)
		}
	}
}

// RequireAdmin returns a middleware that rejects non-admin actors. It must
// run after Auth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := GetActor(c)
			if !actor.Role.IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]any{
					"status":  http.StatusForbidden,
					"message": "Forbidden: admins only",
				})
			}
			return next(c)
		}
	}
}

// GetActor extracts the authenticated actor from the echo context. The
// zero actor means the request was not authenticated.
func GetActor(c echo.Context) authz.Actor {
	actor := authz.Actor{}
	if id, ok := c.Get(string(ContextKeyUserID)).(uuid.UUID); ok {
		actor.UserID = id
	}
	if role, ok := c.Get(string(ContextKeyRole)).(user.Role); ok {
		actor.Role = role
	}
	return actor
}

// extractBearerToken extracts the token from a Bearer authorization header.
func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}

// respondAuthError sends an authentication error response in the result
// envelope shape.
func respondAuthError(c echo.Context, err error) error {
	message := "Unauthorized"

	switch {
	case errors.Is(err, ErrMissingAuthHeader):
		message = "Missing authorization header"
	case errors.Is(err, ErrInvalidAuthHeader):
		message = "Invalid authorization header format"
	case errors.Is(err, ErrTokenExpired):
		message = "Token has expired"
	case errors.Is(err, ErrInvalidToken):
		message = "Invalid token"
	}

	return c.JSON(http.StatusUnauthorized, map[string]any{
		"status":  http.StatusUnauthorized,
		"message": message,
	})
}
