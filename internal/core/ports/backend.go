package ports

import (
	"context"

	"github.com/growthzi/dashboard/internal/core/domain"
)

// Credentials is the body of the signup and login calls.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GenerateInput describes the business the AI generator should write a site for.
type GenerateInput struct {
	BusinessType string `json:"business_type" validate:"required"`
	Industry     string `json:"industry"      validate:"required"`
}

// AuthAPI is the backend's authentication surface.
type AuthAPI interface {
	Signup(ctx context.Context, creds Credentials) error
	// Login returns the issued credential token.
	Login(ctx context.Context, creds Credentials) (string, error)
	// Me asks the backend who the bearer of the persisted token is.
	Me(ctx context.Context) (*domain.Identity, error)
}

// WebsiteAPI is the backend's generated-site surface.
type WebsiteAPI interface {
	List(ctx context.Context) ([]domain.Website, error)
	Get(ctx context.Context, id string) (*domain.Website, error)
	Generate(ctx context.Context, in GenerateInput) (*domain.Website, error)
	Update(ctx context.Context, id string, content domain.SiteContent) (*domain.Website, error)
	Delete(ctx context.Context, id string) error
}

// AdminAPI is the backend's user and role administration surface.
type AdminAPI interface {
	ListUsers(ctx context.Context) ([]domain.ManagedUser, error)
	ListRoles(ctx context.Context) ([]domain.RoleRecord, error)
	AssignRole(ctx context.Context, userID, roleName string) error
}
