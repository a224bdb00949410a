package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"linkpage-backend/internal/middleware"
	"linkpage-backend/internal/models"
	"linkpage-backend/internal/service"
)

// pageFromContext resolves the :id route param to a page owned by the
// authenticated user. It writes the error response itself; callers just
// bail out when ok is false.
func pageFromContext(c *gin.Context, pages *service.PageService) (*models.Page, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}

	pageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page id"})
		return nil, false
	}

	page, err := pages.GetOwnedPage(userID, uint(pageID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		case errors.Is(err, service.ErrNotPageOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this page"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		}
		return nil, false
	}
	return page, true
}
