package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
)

const stackBufferSize = 4 << 10

// RecoveryConfig holds configuration for the recovery middleware.
type RecoveryConfig struct {
	Logger *slog.Logger
}

// DefaultRecoveryConfig returns a RecoveryConfig with sensible defaults.
func DefaultRecoveryConfig() RecoveryConfig {
	return RecoveryConfig{
		Logger: slog.Default(),
	}
}

// Recovery returns a middleware that recovers from panics, logs the panic
// with a stack trace and responds with a 500 envelope.
func Recovery(config RecoveryConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, stackBufferSize)
					stack = stack[:runtime.Stack(stack, false)]

					requestID, _ := c.Get(RequestIDKey).(string)
					config.Logger.Error("panic recovered",
						slog.String("request_id", requestID),
						slog.String("method", c.Request().Method),
						slog.String("path", c.Request().URL.Path),
						slog.Any("panic", r),
						slog.String("stack", string(stack)),
					)

					err = c.JSON(http.StatusInternalServerError, map[string]any{
						"status":  http.StatusInternalServerError,
						"message": "internal server error",
					})
					if err != nil {
						err = fmt.Errorf("write panic response: %w", err)
					}
				}
			}()

			return next(c)
		}
	}
}
