package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/service"
)

func runGuard(t *testing.T, snap domain.Snapshot, target string, roles ...domain.Role) (*httptest.ResponseRecorder, *service.Notices, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	notices := service.NewNotices()
	called := false
	handler := Guard(&stubSessions{snap: snap}, notices, roles...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, notices, called
}

func TestGuard_AllowsRole(t *testing.T) {
	rec, notices, called := runGuard(t, domain.AuthenticatedAs("u1", domain.RoleAdmin), "/admin", domain.RoleAdmin)

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d (called=%v)", rec.Code, called)
	}
	if len(notices.Drain()) != 0 {
		t.Fatalf("no notice expected")
	}
}

func TestGuard_AnyAuthenticated(t *testing.T) {
	_, _, called := runGuard(t, domain.AuthenticatedAs("u1", domain.RoleViewer), "/")
	if !called {
		t.Fatalf("viewer should reach an unrestricted route")
	}
}

func TestGuard_AnonymousRedirectsToLogin(t *testing.T) {
	rec, notices, called := runGuard(t, domain.Anonymous(), "/website/w1/edit?tab=about")

	if called {
		t.Fatalf("next must not be called")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?from=%2Fwebsite%2Fw1%2Fedit%3Ftab%3Dabout" {
		t.Fatalf("unexpected location %q", loc)
	}
	if len(notices.Drain()) != 0 {
		t.Fatalf("login redirect carries no notice")
	}
}

func TestGuard_DeniedRedirectsWithNotice(t *testing.T) {
	rec, notices, called := runGuard(t, domain.AuthenticatedAs("u1", domain.RoleEditor), "/admin", domain.RoleAdmin)

	if called {
		t.Fatalf("next must not be called")
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected 302 to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	got := notices.Drain()
	if len(got) != 1 || got[0].Level != domain.NoticeError || got[0].Message != service.DeniedMessage {
		t.Fatalf("unexpected notices %+v", got)
	}
}

func TestGuard_LoadingAnswers503(t *testing.T) {
	rec, _, called := runGuard(t, domain.Snapshot{Phase: domain.PhaseLoading}, "/", domain.RoleAdmin)

	if called {
		t.Fatalf("next must not be called while loading")
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestGuard_UsesPinnedSnapshot(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin", nil), rec)
	c.Set(SessionKey, domain.AuthenticatedAs("u1", domain.RoleAdmin))

	// The live store already says anonymous; the pinned snapshot wins.
	handler := Guard(&stubSessions{snap: domain.Anonymous()}, service.NewNotices(), domain.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
