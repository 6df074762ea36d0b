package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/middleware"
)

type stubValidator struct {
	claims *middleware.TokenClaims
	err    error
}

func (v *stubValidator) ValidateToken(_ context.Context, _ string) (*middleware.TokenClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func performAuth(t *testing.T, validator middleware.TokenValidator, authHeader string, skipPaths ...string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := middleware.Auth(middleware.AuthConfig{
		TokenValidator: validator,
		SkipPaths:      skipPaths,
	})
	require.NoError(t, mw(okHandler)(c))
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuth(t *testing.T) {
	userID := uuid.NewUUID()
	validator := &stubValidator{
		claims: &middleware.TokenClaims{
			UserID:    userID,
			Role:      user.RoleMember,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}

	t.Run("valid token passes and attaches the actor", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		mw := middleware.Auth(middleware.AuthConfig{TokenValidator: validator})
		handler := mw(func(c echo.Context) error {
			actor := middleware.GetActor(c)
			assert.Equal(t, userID, actor.UserID)
			assert.Equal(t, user.RoleMember, actor.Role)
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		rec := performAuth(t, validator, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
		assert.Equal(t, "Missing authorization header", body["message"])
	})

	t.Run("non-bearer header is unauthorized", func(t *testing.T) {
		rec := performAuth(t, validator, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, "Invalid authorization header format", body["message"])
	})

	t.Run("empty bearer token is unauthorized", func(t *testing.T) {
		rec := performAuth(t, validator, "Bearer ")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		rec := performAuth(t, &stubValidator{err: middleware.ErrInvalidToken}, "Bearer bad-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, "Invalid token", body["message"])
	})

	t.Run("expired token is unauthorized", func(t *testing.T) {
		rec := performAuth(t, &stubValidator{err: middleware.ErrTokenExpired}, "Bearer old-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, "Token has expired", body["message"])
	})

	t.Run("skip path passes without a token", func(t *testing.T) {
		rec := performAuth(t, validator, "", "/posts")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	perform := func(t *testing.T, role user.Role, authenticated bool) *httptest.ResponseRecorder {
		t.Helper()

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if authenticated {
			c.Set(string(middleware.ContextKeyUserID), uuid.NewUUID())
			c.Set(string(middleware.ContextKeyRole), role)
		}

		require.NoError(t, middleware.RequireAdmin()(okHandler)(c))
		return rec
	}

	t.Run("admin passes", func(t *testing.T) {
		rec := perform(t, user.RoleAdmin, true)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		rec := perform(t, user.RoleMember, true)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, float64(http.StatusForbidden), body["status"])
	})

	t.Run("unauthenticated is forbidden", func(t *testing.T) {
		rec := perform(t, "", false)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestGetActor(t *testing.T) {
	e := echo.New()

	t.Run("zero actor without context values", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		actor := middleware.GetActor(c)
		assert.True(t, actor.UserID.IsZero())
	})

	t.Run("reads identity and role", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		id := uuid.NewUUID()
		c.Set(string(middleware.ContextKeyUserID), id)
		c.Set(string(middleware.ContextKeyRole), user.RoleAdmin)

		actor := middleware.GetActor(c)
		assert.Equal(t, id, actor.UserID)
		assert.True(t, actor.Role.IsAdmin())
	})
}
