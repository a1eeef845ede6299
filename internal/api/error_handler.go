package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/growthzi/dashboard/internal/api/handler"
	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/infrastructure/backend"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Passes backend answers through with the backend's status and message.
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, validation, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound && he.Internal == nil && he.Message == http.StatusText(http.StatusNotFound) {
			return http.StatusNotFound, "page not found"
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	fallback := ""
	var ae *handler.ActionError
	if errors.As(err, &ae) {
		fallback = ae.Fallback
	}
	orFallback := func(msg string) string {
		if fallback != "" {
			return fallback
		}
		return msg
	}

	// The backend answered: its status and message stand.
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Status, apiErr.Message
		}
		return apiErr.Status, orFallback(http.StatusText(apiErr.Status))
	}

	switch {
	case errors.Is(err, backend.ErrTransport):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unreachable")
		return http.StatusBadGateway, orFallback("backend unavailable")
	case errors.Is(err, domain.ErrSelfRoleChange):
		return http.StatusConflict, domain.ErrSelfRoleChange.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrGenerationInProgress):
		return http.StatusConflict, domain.ErrGenerationInProgress.Error()
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownRole):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrNoToken), errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, orFallback("authentication required")
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, orFallback("internal server error")
}
