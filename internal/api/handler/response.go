package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

// viewResponse is the envelope of every page and action response. Pending
// notices are drained into it.
type viewResponse struct {
	Data     any             `json:"data,omitempty"`
	Redirect string          `json:"redirect,omitempty"`
	Notices  []domain.Notice `json:"notices"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func render(c echo.Context, notices ports.NoticeQueue, status int, data any, redirect string) error {
	pending := notices.Drain()
	if pending == nil {
		pending = []domain.Notice{}
	}
	return c.JSON(status, viewResponse{Data: data, Redirect: redirect, Notices: pending})
}

// ActionError attaches the user-facing fallback message of a failed action.
// The error handler shows the backend's own message when there is one.
type ActionError struct {
	Err      error
	Fallback string
}

func (e *ActionError) Error() string { return e.Err.Error() }
func (e *ActionError) Unwrap() error { return e.Err }

func failed(err error, fallback string) error {
	var ae *ActionError
	if errors.As(err, &ae) {
		return err
	}
	return &ActionError{Err: err, Fallback: fallback}
}

// Fallback messages shown when the backend gives no reason.
const (
	msgLoginFailed    = "Login failed. Please check your credentials."
	msgSignupFailed   = "Signup failed. Please try again."
	msgFetchFailed    = "Failed to fetch websites."
	msgGenerateFailed = "Failed to generate website."
	msgLoadFailed     = "Could not load website data."
	msgSaveFailed     = "Failed to save changes."
	msgDeleteFailed   = "Failed to delete website."
	msgUsersFailed    = "Failed to load users."
	msgAssignFailed   = "Failed to assign role."
)
