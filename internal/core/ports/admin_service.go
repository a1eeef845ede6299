package ports

import (
	"context"
	"time"

	"github.com/growthzi/dashboard/internal/core/domain"
)

// RoleActionKind is the direction of a role change along the role order.
type RoleActionKind string

const (
	ActionPromote RoleActionKind = "promote"
	ActionDemote  RoleActionKind = "demote"
)

// RoleAction is a role change offered for a user row.
type RoleAction struct {
	Kind   RoleActionKind
	Target domain.Role
}

// UserRow is one user in the admin listing.
type UserRow struct {
	ID        string
	Email     string
	RoleName  string
	Role      domain.Role
	CreatedAt time.Time
	IsSelf    bool
	Actions   []RoleAction
}

// AdminView is the admin panel: users newest first, plus the role catalogue.
type AdminView struct {
	Users []UserRow
	Roles []domain.RoleRecord
}

// AdminService implements the role-management use cases.
type AdminService interface {
	View(ctx context.Context, who domain.Session) (*AdminView, error)
	ChangeRole(ctx context.Context, who domain.Session, userID string, target domain.Role) (*AdminView, error)
	Promote(ctx context.Context, who domain.Session, userID string) (*AdminView, error)
	Demote(ctx context.Context, who domain.Session, userID string) (*AdminView, error)
}
