package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growthzi/dashboard/internal/api/metrics"
	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
	"github.com/growthzi/dashboard/internal/core/service"
)

// Guard admits the request when the session is authenticated and, if roles
// are given, holds one of them. Anonymous users are sent to the login page
// with the requested location remembered; users lacking the role are sent
// to the landing page with an error notice. Nothing is decided while the
// session is still loading.
func Guard(sessions ports.SessionManager, notices ports.NoticeQueue, roles ...domain.Role) echo.MiddlewareFunc {
	required := append([]domain.Role(nil), roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap, ok := SnapshotFrom(c)
			if !ok {
				snap = sessions.Snapshot()
				c.Set(SessionKey, snap)
			}

			if !snap.Resolved() {
				metrics.GuardDecisionsTotal.WithLabelValues("loading").Inc()
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session is loading"})
			}

			d := service.DecideFor(snap, c.Request().URL.RequestURI(), required...)
			metrics.GuardDecisionsTotal.WithLabelValues(d.Outcome.String()).Inc()

			switch d.Outcome {
			case service.OutcomeLogin:
				return c.Redirect(http.StatusFound, d.Redirect)
			case service.OutcomeDeny:
				if d.Notice != nil {
					notices.Push(*d.Notice)
				}
				return c.Redirect(http.StatusFound, d.Redirect)
			default:
				return next(c)
			}
		}
	}
}
