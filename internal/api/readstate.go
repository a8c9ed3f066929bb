package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/middleware"
	"github.com/neighborly-app/backend/internal/service"
)

type ReadStateHandler struct {
	readStates *service.ReadStateService
	logger     *zap.Logger
}

func NewReadStateHandler(readStates *service.ReadStateService, logger *zap.Logger) *ReadStateHandler {
	return &ReadStateHandler{readStates: readStates, logger: logger}
}

type updateLastReadRequest struct {
	LastReadTime time.Time `json:"lastReadTime" binding:"required"`
}

// Update handles PUT /v1/channels/:id/read-state; unconditional upsert for
// the caller's marker in this channel.
func (h *ReadStateHandler) Update(c *gin.Context) {
	var req updateLastReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	rs, err := h.readStates.UpdateLastRead(
		c.Request.Context(),
		middleware.GetUserID(c),
		c.Param("id"),
		req.LastReadTime,
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rs)
}

// Get handles GET /v1/channels/:id/read-state. A channel the caller never
// read returns a null lastReadTime rather than an error.
func (h *ReadStateHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	channelID := c.Param("id")

	rs, err := h.readStates.Get(c.Request.Context(), userID, channelID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if rs == nil {
		c.JSON(http.StatusOK, gin.H{
			"userId":       userID,
			"channelId":    channelID,
			"lastReadTime": nil,
		})
		return
	}
	c.JSON(http.StatusOK, rs)
}
