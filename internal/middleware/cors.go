package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// corsMaxAge is how long browsers may cache preflight results, in seconds.
const corsMaxAge = 86400

// CORSConfig holds the cross-origin policy. Methods and headers are fixed
// to what the API actually serves; only the origin policy varies per
// deployment.
type CORSConfig struct {
	// AllowOrigins lists origins that may access the API. "*" allows all.
	AllowOrigins []string

	// AllowCredentials permits requests with user credentials. Must not be
	// combined with a wildcard origin.
	AllowCredentials bool
}

// DefaultCORSConfig allows all origins without credentials.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowCredentials: false,
	}
}

// CORS returns the cross-origin middleware for the given policy.
func CORS(config CORSConfig) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: config.AllowOrigins,
		AllowMethods: []string{
			echo.GET,
			echo.POST,
			echo.PUT,
			echo.PATCH,
			echo.DELETE,
			echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			echo.HeaderXRequestID,
		},
		AllowCredentials: config.AllowCredentials,
		MaxAge:           corsMaxAge,
	})
}
