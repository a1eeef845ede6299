package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/growthzi/dashboard/internal/api/metrics"
	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
	"github.com/growthzi/dashboard/internal/core/service"
)

// SiteHandler serves the dashboard and the site editor.
type SiteHandler struct {
	sites   ports.SiteService
	notices ports.NoticeQueue
}

func NewSiteHandler(sites ports.SiteService, notices ports.NoticeQueue) *SiteHandler {
	return &SiteHandler{sites: sites, notices: notices}
}

type generateRequest struct {
	BusinessType string `json:"business_type" form:"business_type" validate:"required"`
	Industry     string `json:"industry"      form:"industry"      validate:"required"`
}

type saveRequest struct {
	Content domain.SiteContent `json:"content"`
}

type websiteCard struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	Title      string `json:"title"`
	Headline   string `json:"headline"`
	PreviewURL string `json:"preview_url"`
	CanModify  bool   `json:"can_modify"`
}

type dashboardView struct {
	Websites    []websiteCard `json:"websites"`
	CanGenerate bool          `json:"can_generate"`
}

type editorView struct {
	ID      string             `json:"id"`
	OwnerID string             `json:"owner_id"`
	Content domain.SiteContent `json:"content"`
	CanSave bool               `json:"can_save"`
}

// Dashboard handles GET /.
//
// @Summary      List websites
// @Tags         websites
// @Produce      json
// @Success      200  {object}  viewResponse{data=dashboardView}
// @Failure      502  {object}  errorResponse
// @Router       / [get]
func (h *SiteHandler) Dashboard(c echo.Context) error {
	who, err := ctxSession(c)
	if err != nil {
		return err
	}

	view, err := h.sites.Dashboard(c.Request().Context(), who)
	if err != nil {
		return failed(err, msgFetchFailed)
	}
	return render(c, h.notices, http.StatusOK, toDashboardView(view), "")
}

// Generate handles POST /websites/generate.
//
// @Summary      Generate a website with AI
// @Tags         websites
// @Accept       json
// @Produce      json
// @Param        body  body      generateRequest  true  "Business description"
// @Success      201   {object}  viewResponse{data=dashboardView}
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /websites/generate [post]
func (h *SiteHandler) Generate(c echo.Context) error {
	who, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.sites.Generate(c.Request().Context(), who, ports.GenerateInput{
		BusinessType: req.BusinessType,
		Industry:     req.Industry,
	})
	if err != nil {
		metrics.WebsitesGeneratedTotal.WithLabelValues("error").Inc()
		return failed(err, msgGenerateFailed)
	}
	metrics.WebsitesGeneratedTotal.WithLabelValues("ok").Inc()

	h.notices.Push(domain.SuccessNotice("Website generated successfully!"))
	return render(c, h.notices, http.StatusCreated, toDashboardView(view), "")
}

// Editor handles GET /website/:id/edit. A site that cannot be loaded sends
// the user back to the dashboard with an error notice.
//
// @Summary      Load a website for editing
// @Tags         websites
// @Produce      json
// @Param        id   path      string  true  "Website ID"
// @Success      200  {object}  viewResponse{data=editorView}
// @Success      302  "back to the dashboard when the site cannot be loaded"
// @Router       /website/{id}/edit [get]
func (h *SiteHandler) Editor(c echo.Context) error {
	who, err := ctxSession(c)
	if err != nil {
		return err
	}

	view, err := h.sites.Editor(c.Request().Context(), who, c.Param("id"))
	if err != nil {
		h.notices.Push(domain.ErrorNotice(msgLoadFailed))
		return c.Redirect(http.StatusFound, service.LandingPath)
	}
	return render(c, h.notices, http.StatusOK, toEditorView(view), "")
}

// Save handles PUT /website/:id.
//
// @Summary      Save website content
// @Tags         websites
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Website ID"
// @Param        body  body      saveRequest  true  "Edited content"
// @Success      200   {object}  viewResponse{data=editorView}
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /website/{id} [put]
func (h *SiteHandler) Save(c echo.Context) error {
	who, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req saveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.sites.Save(c.Request().Context(), who, c.Param("id"), req.Content)
	if err != nil {
		return failed(err, msgSaveFailed)
	}

	h.notices.Push(domain.SuccessNotice("Website updated successfully!"))
	return render(c, h.notices, http.StatusOK, toEditorView(view), service.LandingPath)
}

// Delete handles DELETE /website/:id.
//
// @Summary      Delete a website
// @Tags         websites
// @Produce      json
// @Param        id   path      string  true  "Website ID"
// @Success      200  {object}  viewResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /website/{id} [delete]
func (h *SiteHandler) Delete(c echo.Context) error {
	who, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.sites.Delete(c.Request().Context(), who, c.Param("id")); err != nil {
		return failed(err, msgDeleteFailed)
	}

	h.notices.Push(domain.SuccessNotice("Website deleted successfully!"))
	return render(c, h.notices, http.StatusOK, nil, service.LandingPath)
}

func toDashboardView(v *ports.DashboardView) dashboardView {
	out := dashboardView{
		Websites:    make([]websiteCard, 0, len(v.Websites)),
		CanGenerate: v.CanGenerate,
	}
	for _, w := range v.Websites {
		out.Websites = append(out.Websites, websiteCard(w))
	}
	return out
}

func toEditorView(v *ports.EditorView) editorView {
	return editorView(*v)
}
