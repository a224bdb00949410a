package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkpage-backend/internal/service"
)

type UploadHandler struct {
	uploads *service.UploadService
}

func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload stores one media or avatar file. The request context cancels the
// copy when the client disconnects or supersedes the upload.
// POST /api/uploads?kind=media|avatar
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	kind := service.UploadMedia
	if c.Query("kind") == "avatar" {
		kind = service.UploadAvatar
	}

	result, err := h.uploads.Upload(c.Request.Context(), file, kind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge), errors.Is(err, service.ErrTypeNotAllowed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, c.Request.Context().Err()) && c.Request.Context().Err() != nil:
			c.JSON(http.StatusRequestTimeout, gin.H{"error": "upload cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed", "retryable": true})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// DeleteUpload removes a previously uploaded file.
// DELETE /api/uploads
func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	var req struct {
		PublicURL string `json:"public_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.uploads.Delete(req.PublicURL); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
