package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/middleware"
	"github.com/neighborly-app/backend/internal/service"
)

type UserHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

func NewUserHandler(users *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Get handles GET /v1/users/:id. The literal id "me" resolves to the token
// identity (a "me" segment cannot coexist with :id in the route tree).
func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "me" {
		id = middleware.GetUserID(c)
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type batchRequest struct {
	UserIDs []string `json:"userIds" binding:"required"`
}

// Batch handles POST /v1/users/batch; resolve a member list into profiles.
func (h *UserHandler) Batch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	users, err := h.users.GetByIDs(c.Request.Context(), req.UserIDs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Update handles PATCH /v1/users/me. Callers edit only their own profile;
// the target identity comes from the token, never the body. Email is not a
// bindable field, so it cannot be overwritten regardless of what the client
// sends.
func (h *UserHandler) Update(c *gin.Context) {
	var input service.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
