package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growthzi/dashboard/internal/api/middleware"
	"github.com/growthzi/dashboard/internal/core/domain"
)

// ctxSession returns the confirmed identity pinned by the session middleware.
// Guarded routes always have one; reaching a handler without it means the
// route was registered without the guard.
func ctxSession(c echo.Context) (domain.Session, error) {
	snap, ok := middleware.SnapshotFrom(c)
	if !ok || !snap.Authenticated() {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return *snap.Session, nil
}
