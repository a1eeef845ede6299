package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

// SiteService backs the dashboard and the site editor.
type SiteService struct {
	websites   ports.WebsiteAPI
	previewURL string
	logger     zerolog.Logger

	generating atomic.Bool
}

// NewSiteService returns a SiteService. previewBase is the origin that serves
// /preview/{id}; it is usually the backend URL.
func NewSiteService(websites ports.WebsiteAPI, previewBase string, logger zerolog.Logger) *SiteService {
	return &SiteService{
		websites:   websites,
		previewURL: strings.TrimRight(previewBase, "/") + "/preview/",
		logger:     logger.With().Str("component", "sites").Logger(),
	}
}

// Dashboard lists the sites visible to who, with per-card permissions.
func (s *SiteService) Dashboard(ctx context.Context, who domain.Session) (*ports.DashboardView, error) {
	sites, err := s.websites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}

	view := &ports.DashboardView{
		Websites:    make([]ports.WebsiteCard, 0, len(sites)),
		CanGenerate: who.Role.CanCreate(),
	}
	for _, w := range sites {
		view.Websites = append(view.Websites, ports.WebsiteCard{
			ID:         w.ID,
			OwnerID:    w.OwnerID,
			Title:      w.Content.Title,
			Headline:   w.Content.Hero.Headline,
			PreviewURL: s.previewURL + w.ID,
			CanModify:  who.Role.CanModify(w.OwnerID, who.ID),
		})
	}
	return view, nil
}

// Generate asks the backend to create a site and returns the refreshed
// dashboard. Only one generation may be in flight at a time.
func (s *SiteService) Generate(ctx context.Context, who domain.Session, in ports.GenerateInput) (*ports.DashboardView, error) {
	if !who.Role.CanCreate() {
		return nil, fmt.Errorf("generate website: %w", domain.ErrForbidden)
	}
	in.BusinessType = strings.TrimSpace(in.BusinessType)
	in.Industry = strings.TrimSpace(in.Industry)
	if in.BusinessType == "" || in.Industry == "" {
		return nil, fmt.Errorf("generate website: %w: business_type and industry are required", domain.ErrInvalidInput)
	}

	if !s.generating.CompareAndSwap(false, true) {
		return nil, domain.ErrGenerationInProgress
	}
	defer s.generating.Store(false)

	created, err := s.websites.Generate(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("generate website: %w", err)
	}
	s.logger.Info().
		Str("website_id", created.ID).
		Str("business_type", in.BusinessType).
		Str("industry", in.Industry).
		Msg("website generated")

	return s.Dashboard(ctx, who)
}

// Editor loads one site for editing.
func (s *SiteService) Editor(ctx context.Context, who domain.Session, id string) (*ports.EditorView, error) {
	w, err := s.websites.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load website %s: %w", id, err)
	}
	return toEditorView(w, who), nil
}

// Save replaces the content of a site the user may modify.
func (s *SiteService) Save(ctx context.Context, who domain.Session, id string, content domain.SiteContent) (*ports.EditorView, error) {
	if err := validateContent(content); err != nil {
		return nil, fmt.Errorf("save website %s: %w", id, err)
	}

	current, err := s.websites.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("save website %s: %w", id, err)
	}
	if !who.Role.CanModify(current.OwnerID, who.ID) {
		return nil, fmt.Errorf("save website %s: %w", id, domain.ErrForbidden)
	}

	updated, err := s.websites.Update(ctx, id, content)
	if err != nil {
		return nil, fmt.Errorf("save website %s: %w", id, err)
	}
	// Ack-style answers carry no owner; ownership does not change on save.
	if updated.OwnerID == "" {
		updated.OwnerID = current.OwnerID
	}
	s.logger.Info().Str("website_id", id).Msg("website updated")
	return toEditorView(updated, who), nil
}

// Delete removes a site the user may modify.
func (s *SiteService) Delete(ctx context.Context, who domain.Session, id string) error {
	current, err := s.websites.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete website %s: %w", id, err)
	}
	if !who.Role.CanModify(current.OwnerID, who.ID) {
		return fmt.Errorf("delete website %s: %w", id, domain.ErrForbidden)
	}
	if err := s.websites.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete website %s: %w", id, err)
	}
	s.logger.Info().Str("website_id", id).Msg("website deleted")
	return nil
}

func toEditorView(w *domain.Website, who domain.Session) *ports.EditorView {
	return &ports.EditorView{
		ID:      w.ID,
		OwnerID: w.OwnerID,
		Content: w.Content,
		CanSave: who.Role.CanModify(w.OwnerID, who.ID),
	}
}

func validateContent(c domain.SiteContent) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	for i, svc := range c.Services {
		if strings.TrimSpace(svc.Name) == "" {
			return fmt.Errorf("%w: service %d needs a name", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}
