package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkpage-backend/internal/middleware"
	"linkpage-backend/internal/models"
	"linkpage-backend/internal/service"
)

type PageHandler struct {
	pages  *service.PageService
	drafts *service.DraftManager
}

func NewPageHandler(pages *service.PageService, drafts *service.DraftManager) *PageHandler {
	return &PageHandler{pages: pages, drafts: drafts}
}

type createPageRequest struct {
	Slug  string `json:"slug" binding:"required,slug"`
	Title string `json:"title" binding:"required,no_html"`
}

// CreatePage provisions the authenticated user's page.
// POST /api/pages
func (h *PageHandler) CreatePage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pages.CreatePage(userID, req.Slug, req.Title)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, page)
}

// GetMyPage returns the authenticated user's page with its items.
// GET /api/me/page
func (h *PageHandler) GetMyPage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	page, err := h.pages.GetPageForUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}

	items, err := h.pages.ListItems(page.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page, "items": items})
}

// SaveDraft accepts a partial draft update; writes are debounced through
// the auto-save controller rather than hitting the database per call.
// PATCH /api/pages/:id/draft
func (h *PageHandler) SaveDraft(c *gin.Context) {
	page, ok := h.ownedPage(c)
	if !ok {
		return
	}

	var fields models.DraftFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields.LayoutSet = fields.Layout != nil

	h.drafts.Update(page.ID, fields)
	status := h.drafts.Status(page.ID)
	c.JSON(http.StatusAccepted, gin.H{
		"dirty":  status.Dirty,
		"saving": status.Saving,
	})
}

// DraftStatus reports the page's save state.
// GET /api/pages/:id/draft/status
func (h *PageHandler) DraftStatus(c *gin.Context) {
	page, ok := h.ownedPage(c)
	if !ok {
		return
	}

	status := h.drafts.Status(page.ID)
	resp := gin.H{"dirty": status.Dirty, "saving": status.Saving}
	if status.Err != nil {
		resp["error"] = status.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// GetPublicPage renders a published page for visitors.
// GET /p/:slug
func (h *PageHandler) GetPublicPage(c *gin.Context) {
	view, err := h.pages.GetPublicPage(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PageHandler) ownedPage(c *gin.Context) (*models.Page, bool) {
	return pageFromContext(c, h.pages)
}
