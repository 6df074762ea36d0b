package httphandler_test

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	httphandler "github.com/lllypuk/agora/internal/handler/http"
	"github.com/lllypuk/agora/internal/infrastructure/httpserver"
)

func TestRegisterRoutes(t *testing.T) {
	e := echo.New()
	r := httpserver.NewRouter(e, httpserver.DefaultRouterConfig())

	userSvc := httphandler.NewMockUserService()
	r.RegisterAll(
		httphandler.NewAuthHandler(userSvc),
		httphandler.NewUserHandler(userSvc),
		httphandler.NewPostHandler(httphandler.NewMockPostService()),
		httphandler.NewCommentHandler(httphandler.NewMockCommentService()),
	)

	registered := make(map[string]bool)
	for _, route := range e.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",

		"GET /api/v1/posts",
		"GET /api/v1/posts/:id",
		"GET /api/v1/users/:id/posts",
		"POST /api/v1/posts",
		"PUT /api/v1/posts/:id",
		"DELETE /api/v1/posts/:id",
		"POST /api/v1/posts/:id/vote",

		"GET /api/v1/posts/:id/comments",
		"GET /api/v1/comments/:id",
		"POST /api/v1/posts/:id/comments",
		"PUT /api/v1/comments/:id",
		"DELETE /api/v1/comments/:id",
		"POST /api/v1/comments/:id/vote",

		"GET /api/v1/users/me",
		"PUT /api/v1/users/me",
		"PATCH /api/v1/users/password",
		"GET /api/v1/users/:id",
		"GET /api/v1/users",
		"PUT /api/v1/users/:id",
		"DELETE /api/v1/users/:id",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
