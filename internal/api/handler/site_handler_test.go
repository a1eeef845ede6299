package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
	"github.com/growthzi/dashboard/internal/core/service"
)

var editorSnap = domain.AuthenticatedAs("u1", domain.RoleEditor)

func TestSiteHandler_Dashboard(t *testing.T) {
	sites := &stubSites{
		dashboardFn: func(_ context.Context, who domain.Session) (*ports.DashboardView, error) {
			if who.ID != "u1" {
				t.Fatalf("unexpected session %+v", who)
			}
			return &ports.DashboardView{
				Websites:    []ports.WebsiteCard{{ID: "w1", OwnerID: "u1", Title: "Acme", CanModify: true}},
				CanGenerate: true,
			}, nil
		},
	}
	h := NewSiteHandler(sites, service.NewNotices())
	c, rec := newContext(http.MethodGet, "/", "", snapPtr(editorSnap))

	if err := h.Dashboard(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var data dashboardView
	if err := json.Unmarshal(decodeView(t, rec.Body.Bytes()).Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !data.CanGenerate || len(data.Websites) != 1 || data.Websites[0].Title != "Acme" || !data.Websites[0].CanModify {
		t.Fatalf("unexpected dashboard %+v", data)
	}
}

func TestSiteHandler_Dashboard_RequiresSession(t *testing.T) {
	h := NewSiteHandler(&stubSites{}, service.NewNotices())
	c, _ := newContext(http.MethodGet, "/", "", snapPtr(domain.Anonymous()))

	err := h.Dashboard(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestSiteHandler_Dashboard_Failure(t *testing.T) {
	sites := &stubSites{
		dashboardFn: func(context.Context, domain.Session) (*ports.DashboardView, error) { return nil, errBackend },
	}
	h := NewSiteHandler(sites, service.NewNotices())
	c, _ := newContext(http.MethodGet, "/", "", snapPtr(editorSnap))

	var ae *ActionError
	if err := h.Dashboard(c); !errors.As(err, &ae) || ae.Fallback != msgFetchFailed {
		t.Fatalf("expected fetch failure, got %v", err)
	}
}

func TestSiteHandler_Generate(t *testing.T) {
	var got ports.GenerateInput
	sites := &stubSites{
		generateFn: func(_ context.Context, _ domain.Session, in ports.GenerateInput) (*ports.DashboardView, error) {
			got = in
			return &ports.DashboardView{CanGenerate: true}, nil
		},
	}
	h := NewSiteHandler(sites, service.NewNotices())
	c, rec := newContext(http.MethodPost, "/websites/generate",
		`{"business_type":"bakery","industry":"food"}`, snapPtr(editorSnap))

	if err := h.Generate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.BusinessType != "bakery" || got.Industry != "food" {
		t.Fatalf("input not forwarded: %+v", got)
	}
	v := decodeView(t, rec.Body.Bytes())
	if len(v.Notices) != 1 || v.Notices[0].Level != domain.NoticeSuccess {
		t.Fatalf("unexpected notices %+v", v.Notices)
	}
}

func TestSiteHandler_Generate_Validation(t *testing.T) {
	h := NewSiteHandler(&stubSites{}, service.NewNotices())
	c, _ := newContext(http.MethodPost, "/websites/generate", `{"business_type":"bakery"}`, snapPtr(editorSnap))

	err := h.Generate(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestSiteHandler_Editor_LoadFailureRedirects(t *testing.T) {
	sites := &stubSites{
		editorFn: func(context.Context, domain.Session, string) (*ports.EditorView, error) { return nil, errBackend },
	}
	notices := service.NewNotices()
	h := NewSiteHandler(sites, notices)
	c, rec := newContext(http.MethodGet, "/website/w1/edit", "", snapPtr(editorSnap))
	c.SetParamNames("id")
	c.SetParamValues("w1")

	if err := h.Editor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	pending := notices.Drain()
	if len(pending) != 1 || pending[0].Message != msgLoadFailed {
		t.Fatalf("unexpected notices %+v", pending)
	}
}

func TestSiteHandler_Save(t *testing.T) {
	sites := &stubSites{
		saveFn: func(_ context.Context, _ domain.Session, id string, content domain.SiteContent) (*ports.EditorView, error) {
			if id != "w1" || content.Title != "New title" {
				t.Fatalf("unexpected save %s %+v", id, content)
			}
			return &ports.EditorView{ID: id, OwnerID: "u1", Content: content, CanSave: true}, nil
		},
	}
	h := NewSiteHandler(sites, service.NewNotices())
	c, rec := newContext(http.MethodPut, "/website/w1", `{"content":{"title":"New title"}}`, snapPtr(editorSnap))
	c.SetParamNames("id")
	c.SetParamValues("w1")

	if err := h.Save(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := decodeView(t, rec.Body.Bytes())
	if v.Redirect != "/" {
		t.Fatalf("expected redirect to dashboard, got %q", v.Redirect)
	}
	if len(v.Notices) != 1 || v.Notices[0].Message != "Website updated successfully!" {
		t.Fatalf("unexpected notices %+v", v.Notices)
	}
}

func TestSiteHandler_Delete_Forbidden(t *testing.T) {
	sites := &stubSites{
		deleteFn: func(context.Context, domain.Session, string) error { return domain.ErrForbidden },
	}
	h := NewSiteHandler(sites, service.NewNotices())
	c, _ := newContext(http.MethodDelete, "/website/w2", "", snapPtr(editorSnap))
	c.SetParamNames("id")
	c.SetParamValues("w2")

	err := h.Delete(c)
	var ae *ActionError
	if !errors.As(err, &ae) || ae.Fallback != msgDeleteFailed || !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("unexpected error %v", err)
	}
}
