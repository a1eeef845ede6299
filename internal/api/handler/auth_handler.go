package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growthzi/dashboard/internal/api/middleware"
	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
	"github.com/growthzi/dashboard/internal/core/service"
)

// AuthHandler serves the login, signup and logout flows and the navigation
// summary of the current session.
type AuthHandler struct {
	sessions ports.SessionManager
	notices  ports.NoticeQueue
}

func NewAuthHandler(sessions ports.SessionManager, notices ports.NoticeQueue) *AuthHandler {
	return &AuthHandler{sessions: sessions, notices: notices}
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	// From is where to go after a successful login; also read from ?from=.
	From string `json:"from,omitempty" form:"from"`
}

func (r loginRequest) credentials() ports.Credentials {
	return ports.Credentials{Email: r.Email, Password: r.Password}
}

type formPage struct {
	Form          string `json:"form"`
	From          string `json:"from,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// LoginPage handles GET /login.
//
// @Summary      Login page
// @Tags         auth
// @Produce      json
// @Param        from  query     string  false  "Location to return to after login"
// @Success      200   {object}  viewResponse
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	snap := h.snapshot(c)
	return render(c, h.notices, http.StatusOK, formPage{
		Form:          "login",
		From:          service.SafeReturnPath(c.QueryParam("from")),
		Authenticated: snap.Authenticated(),
	}, "")
}

// Login handles POST /login.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  viewResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if req.From == "" {
		req.From = c.QueryParam("from")
	}

	if err := h.sessions.Login(c.Request().Context(), req.credentials()); err != nil {
		return failed(err, msgLoginFailed)
	}

	h.notices.Push(domain.SuccessNotice("Successfully logged in!"))
	return render(c, h.notices, http.StatusOK, h.sessionView(h.sessions.Snapshot()), service.SafeReturnPath(req.From))
}

// SignupPage handles GET /signup.
//
// @Summary      Signup page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /signup [get]
func (h *AuthHandler) SignupPage(c echo.Context) error {
	snap := h.snapshot(c)
	return render(c, h.notices, http.StatusOK, formPage{Form: "signup", Authenticated: snap.Authenticated()}, "")
}

// Signup handles POST /signup. The new account is logged in right away.
//
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      201   {object}  viewResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.sessions.Signup(c.Request().Context(), req.credentials()); err != nil {
		return failed(err, msgSignupFailed)
	}

	h.notices.Push(domain.SuccessNotice("Account created successfully! Logging you in..."))
	return render(c, h.notices, http.StatusCreated, h.sessionView(h.sessions.Snapshot()), service.LandingPath)
}

// Logout handles POST /logout. It never fails.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context())
	return render(c, h.notices, http.StatusOK, h.sessionView(h.sessions.Snapshot()), service.LoginPath)
}

type navLink struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

type sessionView struct {
	Phase         domain.Phase    `json:"phase"`
	Authenticated bool            `json:"authenticated"`
	User          *domain.Session `json:"user,omitempty"`
	Links         []navLink       `json:"links"`
}

// Session handles GET /session: who is logged in and where they may go.
//
// @Summary      Current session and navigation
// @Tags         auth
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return render(c, h.notices, http.StatusOK, h.sessionView(h.snapshot(c)), "")
}

func (h *AuthHandler) snapshot(c echo.Context) domain.Snapshot {
	if snap, ok := middleware.SnapshotFrom(c); ok {
		return snap
	}
	return h.sessions.Snapshot()
}

func (h *AuthHandler) sessionView(snap domain.Snapshot) sessionView {
	return sessionView{
		Phase:         snap.Phase,
		Authenticated: snap.Authenticated(),
		User:          snap.Session,
		Links:         navigation(snap),
	}
}

// navigation lists the links the navbar offers for snap.
func navigation(snap domain.Snapshot) []navLink {
	if !snap.Authenticated() {
		if !snap.Resolved() {
			return []navLink{}
		}
		return []navLink{
			{Label: "Login", Href: service.LoginPath},
			{Label: "Sign Up", Href: "/signup"},
		}
	}

	links := []navLink{{Label: "Dashboard", Href: service.LandingPath}}
	if snap.Role().CanManageUsers() {
		links = append(links, navLink{Label: "Admin Panel", Href: "/admin"})
	}
	return append(links, navLink{Label: "Logout", Href: "/logout", Method: http.MethodPost})
}
