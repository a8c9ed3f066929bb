package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/middleware"
	"github.com/neighborly-app/backend/internal/service"
)

type BuildingHandler struct {
	buildings  *service.BuildingService
	membership *service.MembershipService
	logger     *zap.Logger
}

func NewBuildingHandler(
	buildings *service.BuildingService,
	membership *service.MembershipService,
	logger *zap.Logger,
) *BuildingHandler {
	return &BuildingHandler{
		buildings:  buildings,
		membership: membership,
		logger:     logger,
	}
}

// Get handles GET /v1/buildings/:id.
func (h *BuildingHandler) Get(c *gin.Context) {
	building, err := h.buildings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, building)
}

// Search handles GET /v1/buildings?city=&state=&address=.
func (h *BuildingHandler) Search(c *gin.Context) {
	buildings, err := h.buildings.Search(
		c.Request.Context(),
		c.Query("city"),
		c.Query("state"),
		c.Query("address"),
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, buildings)
}

// Join handles POST /v1/buildings/:id/join. Joining a building you already
// belong to is a success no-op, reported via alreadyMember.
func (h *BuildingHandler) Join(c *gin.Context) {
	result, err := h.membership.JoinBuilding(
		c.Request.Context(),
		middleware.GetUserID(c),
		c.Param("id"),
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListChannels handles GET /v1/buildings/:id/channels.
func (h *BuildingHandler) ListChannels(c *gin.Context) {
	channels, err := h.buildings.ListChannels(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}
