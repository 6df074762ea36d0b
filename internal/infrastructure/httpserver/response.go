package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/agora/internal/domain/errs"
)

// Envelope is the response body every endpoint returns. Status mirrors the
// HTTP status code, Message is human readable and Data carries the payload
// when there is one.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// RespondJSON sends an enveloped JSON response with the given status code.
func RespondJSON(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{
		Status:  code,
		Message: message,
		Data:    data,
	})
}

// RespondOK sends a 200 OK response.
func RespondOK(c echo.Context, message string, data any) error {
	return RespondJSON(c, http.StatusOK, message, data)
}

// RespondCreated sends a 201 Created response.
func RespondCreated(c echo.Context, message string, data any) error {
	return RespondJSON(c, http.StatusCreated, message, data)
}

// RespondError sends an enveloped error response based on the error type.
// Internal errors are redacted; callers are expected to have logged the
// detail already.
func RespondError(c echo.Context, err error) error {
	code, message := mapError(err)
	return c.JSON(code, Envelope{
		Status:  code,
		Message: message,
	})
}

// RespondErrorWithCode sends an enveloped error response with an explicit
// HTTP status code.
func RespondErrorWithCode(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{
		Status:  code,
		Message: message,
	})
}

// mapError maps domain errors to an HTTP status code and a client-safe
// message.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest, clientMessage(err, "invalid input")

	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, clientMessage(err, "authentication required")

	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, clientMessage(err, "access denied")

	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, clientMessage(err, "resource not found")

	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict, clientMessage(err, "resource already exists")

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// clientMessage returns the error's own message when it carries one beyond
// the bare sentinel, falling back to a generic phrasing.
func clientMessage(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
