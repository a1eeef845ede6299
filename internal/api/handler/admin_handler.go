package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/growthzi/dashboard/internal/api/metrics"
	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

// AdminHandler serves the role-management panel.
type AdminHandler struct {
	admin   ports.AdminService
	notices ports.NoticeQueue
}

func NewAdminHandler(admin ports.AdminService, notices ports.NoticeQueue) *AdminHandler {
	return &AdminHandler{admin: admin, notices: notices}
}

type changeRoleRequest struct {
	Role string `json:"role" form:"role" validate:"required"`
}

type roleAction struct {
	Action string `json:"action"`
	Role   string `json:"role"`
	Href   string `json:"href"`
}

type userRow struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	Role      string       `json:"role"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
	IsSelf    bool         `json:"is_self"`
	Actions   []roleAction `json:"actions"`
}

type adminView struct {
	Users []userRow           `json:"users"`
	Roles []domain.RoleRecord `json:"roles"`
}

// View handles GET /admin.
//
// @Summary      List users and roles
// @Tags         admin
// @Produce      json
// @Success      200  {object}  viewResponse{data=adminView}
// @Failure      502  {object}  errorResponse
// @Router       /admin [get]
func (h *AdminHandler) View(c echo.Context) error {
	who, err := ctxSession(c)
	if err != nil {
		return err
	}

	view, err := h.admin.View(c.Request().Context(), who)
	if err != nil {
		return failed(err, msgUsersFailed)
	}
	return render(c, h.notices, http.StatusOK, toAdminView(view), "")
}

// ChangeRole handles PUT /admin/users/:id/role.
//
// @Summary      Assign a role to a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      changeRoleRequest  true  "Role to assign"
// @Success      200   {object}  viewResponse{data=adminView}
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	who, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	target, err := domain.ParseRole(req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, fmt.Sprintf("role must be one of: %s", roleNames()))
	}

	view, err := h.admin.ChangeRole(c.Request().Context(), who, c.Param("id"), target)
	return h.afterChange(c, view, err, target)
}

// Promote handles POST /admin/users/:id/promote.
//
// @Summary      Promote a user one role up
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  viewResponse{data=adminView}
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /admin/users/{id}/promote [post]
func (h *AdminHandler) Promote(c echo.Context) error {
	who, err := ctxSession(c)
	if err != nil {
		return err
	}
	view, err := h.admin.Promote(c.Request().Context(), who, c.Param("id"))
	return h.afterChange(c, view, err, roleOf(view, c.Param("id")))
}

// Demote handles POST /admin/users/:id/demote.
//
// @Summary      Demote a user one role down
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  viewResponse{data=adminView}
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /admin/users/{id}/demote [post]
func (h *AdminHandler) Demote(c echo.Context) error {
	who, err := ctxSession(c)
	if err != nil {
		return err
	}
	view, err := h.admin.Demote(c.Request().Context(), who, c.Param("id"))
	return h.afterChange(c, view, err, roleOf(view, c.Param("id")))
}

func (h *AdminHandler) afterChange(c echo.Context, view *ports.AdminView, err error, assigned domain.Role) error {
	if err != nil {
		return failed(err, msgAssignFailed)
	}
	metrics.RoleChangesTotal.WithLabelValues(assigned.String()).Inc()
	h.notices.Push(domain.SuccessNotice(fmt.Sprintf("Successfully assigned role '%s' to user.", assigned)))
	return render(c, h.notices, http.StatusOK, toAdminView(view), "")
}

// roleOf reads the role a user ended up with from the re-fetched view.
func roleOf(view *ports.AdminView, userID string) domain.Role {
	if view == nil {
		return domain.RoleUnknown
	}
	for _, u := range view.Users {
		if u.ID == userID {
			return u.Role
		}
	}
	return domain.RoleUnknown
}

func roleNames() string {
	roles := domain.AllRoles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}

func toAdminView(v *ports.AdminView) adminView {
	out := adminView{
		Users: make([]userRow, 0, len(v.Users)),
		Roles: v.Roles,
	}
	if out.Roles == nil {
		out.Roles = []domain.RoleRecord{}
	}
	for _, u := range v.Users {
		row := userRow{
			ID:      u.ID,
			Email:   u.Email,
			Role:    u.RoleName,
			IsSelf:  u.IsSelf,
			Actions: make([]roleAction, 0, len(u.Actions)),
		}
		if !u.CreatedAt.IsZero() {
			created := u.CreatedAt
			row.CreatedAt = &created
		}
		for _, a := range u.Actions {
			row.Actions = append(row.Actions, roleAction{
				Action: string(a.Kind),
				Role:   a.Target.String(),
				Href:   fmt.Sprintf("/admin/users/%s/%s", u.ID, a.Kind),
			})
		}
		out.Users = append(out.Users, row)
	}
	return out
}
