package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

// WebsiteAPI implements ports.WebsiteAPI over /api/websites.
type WebsiteAPI struct {
	client *Client
}

var _ ports.WebsiteAPI = (*WebsiteAPI)(nil)

func NewWebsiteAPI(client *Client) *WebsiteAPI {
	return &WebsiteAPI{client: client}
}

func (w *WebsiteAPI) List(ctx context.Context) ([]domain.Website, error) {
	var sites []domain.Website
	err := w.client.Do(ctx, Request{
		Method:    http.MethodGet,
		Path:      "/api/websites/",
		Operation: "websites.list",
	}, &sites)
	if err != nil {
		return nil, err
	}
	if sites == nil {
		sites = []domain.Website{}
	}
	return sites, nil
}

func (w *WebsiteAPI) Get(ctx context.Context, id string) (*domain.Website, error) {
	seg, err := escapeID(id)
	if err != nil {
		return nil, err
	}
	var site domain.Website
	err = w.client.Do(ctx, Request{
		Method:    http.MethodGet,
		Path:      "/api/websites/" + seg,
		Operation: "websites.get",
	}, &site)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// Generate asks the AI generator for a new site. The backend answers either
// with {"website": {...}} or with the bare document.
func (w *WebsiteAPI) Generate(ctx context.Context, in ports.GenerateInput) (*domain.Website, error) {
	var raw json.RawMessage
	err := w.client.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      "/api/websites/generate",
		Body:      in,
		Operation: "websites.generate",
	}, &raw)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Website *domain.Website `json:"website"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Website != nil {
		return wrapped.Website, nil
	}

	var site domain.Website
	if err := json.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("websites.generate: decode response: %w", err)
	}
	return &site, nil
}

type updateRequest struct {
	Content domain.SiteContent `json:"content"`
}

func (w *WebsiteAPI) Update(ctx context.Context, id string, content domain.SiteContent) (*domain.Website, error) {
	seg, err := escapeID(id)
	if err != nil {
		return nil, err
	}
	var site domain.Website
	err = w.client.Do(ctx, Request{
		Method:    http.MethodPut,
		Path:      "/api/websites/" + seg,
		Body:      updateRequest{Content: content},
		Operation: "websites.update",
	}, &site)
	if err != nil {
		return nil, err
	}
	if site.ID == "" {
		site = domain.Website{ID: id, Content: content}
	}
	return &site, nil
}

func (w *WebsiteAPI) Delete(ctx context.Context, id string) error {
	seg, err := escapeID(id)
	if err != nil {
		return err
	}
	return w.client.Do(ctx, Request{
		Method:    http.MethodDelete,
		Path:      "/api/websites/" + seg,
		Operation: "websites.delete",
	}, nil)
}
