package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

// SessionKey is the echo context key holding the request's domain.Snapshot.
const SessionKey = "session"

// Session pins the current session snapshot to the request, so every
// handler and guard in the chain sees the same state.
func Session(sessions ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(SessionKey, sessions.Snapshot())
			return next(c)
		}
	}
}

// SnapshotFrom returns the snapshot pinned by Session.
func SnapshotFrom(c echo.Context) (domain.Snapshot, bool) {
	snap, ok := c.Get(SessionKey).(domain.Snapshot)
	return snap, ok
}
