package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/growthzi/dashboard/internal/api/middleware"
	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

var errBackend = errors.New("backend down")

// stubSessions is a SessionManager whose login outcome is scripted.
type stubSessions struct {
	snap      domain.Snapshot
	loginErr  error
	signupErr error
	// loginAs is the snapshot the store moves to after a successful login.
	loginAs   domain.Snapshot
	loggedOut bool
	lastCreds ports.Credentials
}

func (s *stubSessions) Snapshot() domain.Snapshot { return s.snap }

func (s *stubSessions) Subscribe() (<-chan domain.Snapshot, func()) {
	return make(chan domain.Snapshot), func() {}
}

func (s *stubSessions) Initialize(context.Context) domain.Snapshot { return s.snap }

func (s *stubSessions) Login(_ context.Context, creds ports.Credentials) error {
	s.lastCreds = creds
	if s.loginErr != nil {
		return s.loginErr
	}
	s.snap = s.loginAs
	return nil
}

func (s *stubSessions) Signup(ctx context.Context, creds ports.Credentials) error {
	if s.signupErr != nil {
		return s.signupErr
	}
	return s.Login(ctx, creds)
}

func (s *stubSessions) Logout(context.Context) {
	s.loggedOut = true
	s.snap = domain.Anonymous()
}

type stubSites struct {
	dashboardFn func(ctx context.Context, who domain.Session) (*ports.DashboardView, error)
	generateFn  func(ctx context.Context, who domain.Session, in ports.GenerateInput) (*ports.DashboardView, error)
	editorFn    func(ctx context.Context, who domain.Session, id string) (*ports.EditorView, error)
	saveFn      func(ctx context.Context, who domain.Session, id string, content domain.SiteContent) (*ports.EditorView, error)
	deleteFn    func(ctx context.Context, who domain.Session, id string) error
}

func (s *stubSites) Dashboard(ctx context.Context, who domain.Session) (*ports.DashboardView, error) {
	return s.dashboardFn(ctx, who)
}

func (s *stubSites) Generate(ctx context.Context, who domain.Session, in ports.GenerateInput) (*ports.DashboardView, error) {
	return s.generateFn(ctx, who, in)
}

func (s *stubSites) Editor(ctx context.Context, who domain.Session, id string) (*ports.EditorView, error) {
	return s.editorFn(ctx, who, id)
}

func (s *stubSites) Save(ctx context.Context, who domain.Session, id string, content domain.SiteContent) (*ports.EditorView, error) {
	return s.saveFn(ctx, who, id, content)
}

func (s *stubSites) Delete(ctx context.Context, who domain.Session, id string) error {
	return s.deleteFn(ctx, who, id)
}

type stubAdmin struct {
	viewFn   func(ctx context.Context, who domain.Session) (*ports.AdminView, error)
	changeFn func(ctx context.Context, who domain.Session, userID string, target domain.Role) (*ports.AdminView, error)
	stepFn   func(ctx context.Context, who domain.Session, userID string, kind ports.RoleActionKind) (*ports.AdminView, error)
}

func (s *stubAdmin) View(ctx context.Context, who domain.Session) (*ports.AdminView, error) {
	return s.viewFn(ctx, who)
}

func (s *stubAdmin) ChangeRole(ctx context.Context, who domain.Session, userID string, target domain.Role) (*ports.AdminView, error) {
	return s.changeFn(ctx, who, userID, target)
}

func (s *stubAdmin) Promote(ctx context.Context, who domain.Session, userID string) (*ports.AdminView, error) {
	return s.stepFn(ctx, who, userID, ports.ActionPromote)
}

func (s *stubAdmin) Demote(ctx context.Context, who domain.Session, userID string) (*ports.AdminView, error) {
	return s.stepFn(ctx, who, userID, ports.ActionDemote)
}

// newContext builds an echo context with the validator installed and snap
// pinned the way the session middleware would.
func newContext(method, target, body string, snap *domain.Snapshot) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if snap != nil {
		c.Set(middleware.SessionKey, *snap)
	}
	return c, rec
}

func snapPtr(s domain.Snapshot) *domain.Snapshot { return &s }
