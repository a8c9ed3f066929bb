package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/middleware"
	"github.com/neighborly-app/backend/internal/service"
)

type MessageHandler struct {
	messages *service.MessageService
	logger   *zap.Logger
}

func NewMessageHandler(messages *service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

type createMessageRequest struct {
	Content  string `json:"content" binding:"required"`
	MediaURL string `json:"mediaUrl"`
}

// Create handles POST /v1/channels/:id/messages. The author is the token
// identity; sentTime is assigned server-side on accept.
func (h *MessageHandler) Create(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	msg, err := h.messages.Create(
		c.Request.Context(),
		c.Param("id"),
		middleware.GetUserID(c),
		req.Content,
		req.MediaURL,
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// List handles GET /v1/channels/:id/messages?limit=&next_token=.
// Pages run oldest-to-newest; next_token is opaque and store-specific.
func (h *MessageHandler) List(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter", "code": "VALIDATION_ERROR"})
			return
		}
		limit = parsed
	}

	page, err := h.messages.List(
		c.Request.Context(),
		c.Param("id"),
		limit,
		c.Query("next_token"),
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
