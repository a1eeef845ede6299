package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

// AdminService backs the role-management panel. Every mutation is followed by
// a full re-fetch; the view never patches itself locally.
type AdminService struct {
	admin  ports.AdminAPI
	logger zerolog.Logger
}

func NewAdminService(admin ports.AdminAPI, logger zerolog.Logger) *AdminService {
	return &AdminService{
		admin:  admin,
		logger: logger.With().Str("component", "admin").Logger(),
	}
}

// View lists all users newest first with the role changes offered for each.
func (s *AdminService) View(ctx context.Context, who domain.Session) (*ports.AdminView, error) {
	if !who.Role.CanManageUsers() {
		return nil, fmt.Errorf("admin view: %w", domain.ErrForbidden)
	}

	users, err := s.admin.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	roles, err := s.admin.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return &ports.AdminView{
		Users: buildRows(users, who.ID),
		Roles: roles,
	}, nil
}

// ChangeRole assigns target to userID and returns the re-fetched view.
// An administrator cannot change their own role here.
func (s *AdminService) ChangeRole(ctx context.Context, who domain.Session, userID string, target domain.Role) (*ports.AdminView, error) {
	if !who.Role.CanManageUsers() {
		return nil, fmt.Errorf("change role: %w", domain.ErrForbidden)
	}
	if userID == "" {
		return nil, fmt.Errorf("change role: %w: user id is required", domain.ErrInvalidInput)
	}
	if userID == who.ID {
		return nil, domain.ErrSelfRoleChange
	}
	if !target.IsValid() {
		return nil, fmt.Errorf("change role: %w", domain.ErrUnknownRole)
	}

	if err := s.admin.AssignRole(ctx, userID, target.String()); err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}
	s.logger.Info().
		Str("user_id", userID).
		Str("role", target.String()).
		Str("by", who.ID).
		Msg("role assigned")

	return s.View(ctx, who)
}

// Promote moves userID one step up the role order.
func (s *AdminService) Promote(ctx context.Context, who domain.Session, userID string) (*ports.AdminView, error) {
	return s.step(ctx, who, userID, ports.ActionPromote)
}

// Demote moves userID one step down the role order.
func (s *AdminService) Demote(ctx context.Context, who domain.Session, userID string) (*ports.AdminView, error) {
	return s.step(ctx, who, userID, ports.ActionDemote)
}

func (s *AdminService) step(ctx context.Context, who domain.Session, userID string, kind ports.RoleActionKind) (*ports.AdminView, error) {
	if userID == who.ID {
		return nil, domain.ErrSelfRoleChange
	}

	// Resolve the target against the server's current state, not a cached row.
	view, err := s.View(ctx, who)
	if err != nil {
		return nil, err
	}
	for _, row := range view.Users {
		if row.ID != userID {
			continue
		}
		for _, a := range row.Actions {
			if a.Kind == kind {
				return s.ChangeRole(ctx, who, userID, a.Target)
			}
		}
		return nil, fmt.Errorf("%s %s: %w: no such action for role %s", kind, userID, domain.ErrInvalidInput, row.RoleName)
	}
	return nil, fmt.Errorf("%s %s: %w: unknown user", kind, userID, domain.ErrInvalidInput)
}

func buildRows(users []domain.ManagedUser, selfID string) []ports.UserRow {
	rows := make([]ports.UserRow, 0, len(users))
	for _, u := range users {
		role := u.Role()
		row := ports.UserRow{
			ID:        u.ID,
			Email:     u.Email,
			RoleName:  u.RoleName,
			Role:      role,
			CreatedAt: u.CreatedAt.Time,
			IsSelf:    u.ID == selfID,
		}
		if !row.IsSelf {
			row.Actions = roleActions(role)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].Email < rows[j].Email
	})
	return rows
}

func roleActions(role domain.Role) []ports.RoleAction {
	var actions []ports.RoleAction
	if next, ok := role.Next(); ok {
		actions = append(actions, ports.RoleAction{Kind: ports.ActionPromote, Target: next})
	}
	if prev, ok := role.Prev(); ok {
		actions = append(actions, ports.RoleAction{Kind: ports.ActionDemote, Target: prev})
	}
	return actions
}
