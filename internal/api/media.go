package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/storage"
)

type MediaHandler struct {
	media  *storage.MediaStorage
	logger *zap.Logger
}

func NewMediaHandler(media *storage.MediaStorage, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{media: media, logger: logger}
}

// Upload handles POST /v1/media (multipart, field "file"). The returned URL
// is the opaque reference clients put into avatarUrl or a message mediaUrl.
func (h *MediaHandler) Upload(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage is not configured", "code": "STORE_UNAVAILABLE"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'file' field", "code": "VALIDATION_ERROR"})
		return
	}
	if fileHeader.Size > storage.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large", "code": "VALIDATION_ERROR"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed", "code": "STORE_UNAVAILABLE"})
		return
	}
	defer file.Close()

	url, err := h.media.Upload(
		c.Request.Context(),
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
