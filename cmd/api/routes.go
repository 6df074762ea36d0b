// Package main provides the API server entry point.
package main

import (
	"github.com/labstack/echo/v4"

	"github.com/lllypuk/agora/internal/infrastructure/httpserver"
	"github.com/lllypuk/agora/internal/middleware"
)

// SetupRoutes configures all API routes and middleware chains.
func SetupRoutes(c *Container) *httpserver.Router {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	routerConfig := httpserver.RouterConfig{
		Logger: c.Logger,
		AuthMiddleware: middleware.Auth(middleware.AuthConfig{
			Logger:         c.Logger,
			TokenValidator: c.Tokens,
			SkipPaths: []string{
				"/health",
				"/ready",
				"/api/v1/auth/login",
				"/api/v1/auth/register",
			},
		}),
		MetricsMiddleware: c.HTTPMetrics.Middleware(),
		CORSConfig:        middleware.DefaultCORSConfig(),
		LoggingConfig: middleware.LoggingConfig{
			Logger:    c.Logger,
			SkipPaths: []string{"/health", "/ready", "/metrics"},
		},
		RecoveryConfig: middleware.RecoveryConfig{Logger: c.Logger},
		APIPrefix:      "/api/v1",
	}

	router := httpserver.NewRouter(e, routerConfig)

	// Container implements httpserver.HealthChecker, so we pass it directly.
	router.RegisterHealthEndpointsWithChecker(c)
	router.RegisterMetricsEndpoint()

	router.RegisterAll(
		c.AuthHandler,
		c.UserHandler,
		c.PostHandler,
		c.CommentHandler,
	)

	if c.Config.IsDevelopment() {
		router.PrintRoutes()
	}

	return router
}
