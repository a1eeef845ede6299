package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
	"github.com/growthzi/dashboard/internal/core/service"
	"github.com/growthzi/dashboard/internal/infrastructure/backend"
)

type fakeSessions struct {
	snap     domain.Snapshot
	loginErr error
}

func (s *fakeSessions) Snapshot() domain.Snapshot { return s.snap }

func (s *fakeSessions) Subscribe() (<-chan domain.Snapshot, func()) {
	return make(chan domain.Snapshot), func() {}
}

func (s *fakeSessions) Initialize(context.Context) domain.Snapshot      { return s.snap }
func (s *fakeSessions) Login(context.Context, ports.Credentials) error  { return s.loginErr }
func (s *fakeSessions) Signup(context.Context, ports.Credentials) error { return s.loginErr }
func (s *fakeSessions) Logout(context.Context)                          {}

func newTestRouter(snap domain.Snapshot) (*echo.Echo, *fakeSessions, *service.Notices) {
	sessions := &fakeSessions{snap: snap}
	notices := service.NewNotices()
	e := NewRouter(Deps{
		Sessions: sessions,
		Notices:  notices,
		Logger:   zerolog.Nop(),
		Registry: prometheus.NewRegistry(),
	})
	return e, sessions, notices
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_UnknownRoute(t *testing.T) {
	e, _, _ := newTestRouter(domain.Anonymous())

	rec := serve(e, http.MethodGet, "/no/such/page", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "page not found") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_AnonymousDashboardRedirects(t *testing.T) {
	e, _, _ := newTestRouter(domain.Anonymous())

	rec := serve(e, http.MethodGet, "/website/w1/edit", "")

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?from=%2Fwebsite%2Fw1%2Fedit" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestRouter_EditorDeniedAdmin(t *testing.T) {
	e, _, notices := newTestRouter(domain.AuthenticatedAs("u1", domain.RoleEditor))

	rec := serve(e, http.MethodGet, "/admin", "")

	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	pending := notices.Drain()
	if len(pending) != 1 || pending[0].Message != service.DeniedMessage {
		t.Fatalf("unexpected notices %+v", pending)
	}
}

func TestRouter_LoadingSession(t *testing.T) {
	e, _, _ := newTestRouter(domain.Snapshot{Phase: domain.PhaseLoading})

	rec := serve(e, http.MethodGet, "/", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRouter_LoginFailureUsesBackendMessage(t *testing.T) {
	e, sessions, _ := newTestRouter(domain.Anonymous())
	sessions.loginErr = &backend.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}

	rec := serve(e, http.MethodPost, "/login", `{"email":"a@example.com","password":"wrong"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Invalid credentials" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestRouter_OpsEndpoints(t *testing.T) {
	e, _, _ := newTestRouter(domain.Anonymous())

	for _, path := range []string{"/health", "/health/ready", "/metrics", "/session"} {
		if rec := serve(e, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
