package backend

import (
	"context"
	"net/http"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

// AdminAPI implements ports.AdminAPI over /api/admin.
type AdminAPI struct {
	client *Client
}

var _ ports.AdminAPI = (*AdminAPI)(nil)

func NewAdminAPI(client *Client) *AdminAPI {
	return &AdminAPI{client: client}
}

func (a *AdminAPI) ListUsers(ctx context.Context) ([]domain.ManagedUser, error) {
	var users []domain.ManagedUser
	err := a.client.Do(ctx, Request{
		Method:    http.MethodGet,
		Path:      "/api/admin/users",
		Operation: "admin.users",
	}, &users)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.ManagedUser{}
	}
	return users, nil
}

func (a *AdminAPI) ListRoles(ctx context.Context) ([]domain.RoleRecord, error) {
	var roles []domain.RoleRecord
	err := a.client.Do(ctx, Request{
		Method:    http.MethodGet,
		Path:      "/api/admin/roles",
		Operation: "admin.roles",
	}, &roles)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []domain.RoleRecord{}
	}
	return roles, nil
}

type assignRoleRequest struct {
	RoleName string `json:"role_name"`
}

func (a *AdminAPI) AssignRole(ctx context.Context, userID, roleName string) error {
	seg, err := escapeID(userID)
	if err != nil {
		return err
	}
	return a.client.Do(ctx, Request{
		Method:    http.MethodPut,
		Path:      "/api/admin/users/" + seg + "/assign-role",
		Body:      assignRoleRequest{RoleName: roleName},
		Operation: "admin.assign_role",
	}, nil)
}
