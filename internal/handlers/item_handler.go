package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkpage-backend/internal/models"
	"linkpage-backend/internal/service"
)

type ItemHandler struct {
	pages *service.PageService
	links *service.LinkService
}

func NewItemHandler(pages *service.PageService, links *service.LinkService) *ItemHandler {
	return &ItemHandler{pages: pages, links: links}
}

// ListItems returns the page's items in sort order.
// GET /api/pages/:id/items
func (h *ItemHandler) ListItems(c *gin.Context) {
	page, ok := pageFromContext(c, h.pages)
	if !ok {
		return
	}

	items, err := h.pages.ListItems(page.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddItem creates an item. Link items go through the crawler first, so the
// stored payload already carries the page title, favicon and preview image.
// POST /api/pages/:id/items
func (h *ItemHandler) AddItem(c *gin.Context) {
	page, ok := pageFromContext(c, h.pages)
	if !ok {
		return
	}

	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	itemType := models.NormalizeItemType(req.Type)
	if itemType == models.ItemTypeLink && req.URL != "" {
		item, err := h.links.AddLink(c.Request.Context(), page.ID, req.URL)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
			return
		}
		c.JSON(http.StatusCreated, item)
		return
	}

	item, err := h.pages.CreateItem(c.Request.Context(), page.ID, itemType, req.Data)
	if err != nil {
		if errors.Is(err, service.ErrUnknownItemType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if req.Style != nil {
		_ = h.pages.UpdateItem(c.Request.Context(), item.ID, models.UpdateItemRequest{Style: req.Style})
		item.Style = *req.Style
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItem applies a partial content or style update.
// PATCH /api/pages/:id/items/:itemID
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	page, ok := pageFromContext(c, h.pages)
	if !ok {
		return
	}

	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.itemOnPage(c, page) {
		return
	}

	if err := h.pages.UpdateItem(c.Request.Context(), c.Param("itemID"), req); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// DeleteItem removes an item.
// DELETE /api/pages/:id/items/:itemID
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	page, ok := pageFromContext(c, h.pages)
	if !ok {
		return
	}
	if !h.itemOnPage(c, page) {
		return
	}

	if err := h.pages.RemoveItem(c.Request.Context(), c.Param("itemID")); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ToggleItem flips visibility without touching content.
// PATCH /api/pages/:id/items/:itemID/active
func (h *ItemHandler) ToggleItem(c *gin.Context) {
	page, ok := pageFromContext(c, h.pages)
	if !ok {
		return
	}

	var req models.ToggleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
		return
	}

	if !h.itemOnPage(c, page) {
		return
	}

	if err := h.pages.SetItemActive(c.Request.Context(), c.Param("itemID"), *req.IsActive); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "toggled", "is_active": *req.IsActive})
}

// ReorderItems rewrites the page order from the submitted id list.
// PUT /api/pages/:id/items/order
func (h *ItemHandler) ReorderItems(c *gin.Context) {
	page, ok := pageFromContext(c, h.pages)
	if !ok {
		return
	}

	var req models.ReorderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.pages.ReorderItems(c.Request.Context(), page.ID, req.OrderedIDs); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reordered"})
}

// itemOnPage verifies the target item belongs to the authorized page, so an
// owner of one page cannot mutate another page's items by id.
func (h *ItemHandler) itemOnPage(c *gin.Context, page *models.Page) bool {
	items, err := h.pages.ListItems(page.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load items"})
		return false
	}
	itemID := c.Param("itemID")
	for _, item := range items {
		if item.ID == itemID {
			return true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
	return false
}
