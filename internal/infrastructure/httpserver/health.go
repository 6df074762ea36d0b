// Package httpserver provides HTTP server infrastructure components.
package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Component status values reported by the readiness probe.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	// StatusDegraded marks a component whose failure only degrades the
	// service (the user listing falls back to the store when redis is down).
	StatusDegraded = "degraded"
)

// ComponentStatus is the probe result for a single infrastructure component.
type ComponentStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker reports whether the infrastructure behind the service is
// usable.
type HealthChecker interface {
	// IsReady reports whether the service can take traffic.
	IsReady(ctx context.Context) bool

	// GetHealthStatus returns the per-component probe results.
	GetHealthStatus(ctx context.Context) []ComponentStatus
}

type readinessResponse struct {
	Status     string            `json:"status"`
	Components []ComponentStatus `json:"components,omitempty"`
}

// RegisterHealthEndpointsWithChecker registers the probe endpoints.
// GET /health is liveness: 200 while the process runs. GET /ready is
// readiness: 200 or 503 depending on the checker, with per-component
// detail in the body.
func (r *Router) RegisterHealthEndpointsWithChecker(checker HealthChecker) {
	r.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, readinessResponse{Status: StatusHealthy})
	})

	r.echo.GET("/ready", func(c echo.Context) error {
		ctx := c.Request().Context()

		status := "ready"
		code := http.StatusOK
		if checker != nil && !checker.IsReady(ctx) {
			status = "not_ready"
			code = http.StatusServiceUnavailable
		}

		var components []ComponentStatus
		if checker != nil {
			components = checker.GetHealthStatus(ctx)
		}

		return c.JSON(code, readinessResponse{
			Status:     status,
			Components: components,
		})
	})
}
