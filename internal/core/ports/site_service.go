package ports

import (
	"context"

	"github.com/growthzi/dashboard/internal/core/domain"
)

// WebsiteCard is one site as shown on the dashboard.
type WebsiteCard struct {
	ID         string
	OwnerID    string
	Title      string
	Headline   string
	PreviewURL string
	// CanModify gates the edit and delete actions for this card.
	CanModify bool
}

// DashboardView is everything the dashboard page renders.
type DashboardView struct {
	Websites    []WebsiteCard
	CanGenerate bool
}

// EditorView is the editable content of one site.
type EditorView struct {
	ID      string
	OwnerID string
	Content domain.SiteContent
	CanSave bool
}

// SiteService implements the dashboard and editor use cases.
type SiteService interface {
	Dashboard(ctx context.Context, who domain.Session) (*DashboardView, error)
	Generate(ctx context.Context, who domain.Session, in GenerateInput) (*DashboardView, error)
	Editor(ctx context.Context, who domain.Session, id string) (*EditorView, error)
	Save(ctx context.Context, who domain.Session, id string, content domain.SiteContent) (*EditorView, error)
	Delete(ctx context.Context, who domain.Session, id string) error
}
