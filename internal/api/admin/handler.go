package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/buildsense/internal/api/respond"
	"github.com/liliang-cn/buildsense/internal/service"
)

// Handler handles operator API requests
type Handler struct {
	workspaces *service.WorkspaceService
}

// NewHandler creates a new admin handler
func NewHandler(workspaces *service.WorkspaceService) *Handler {
	return &Handler{workspaces: workspaces}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.GetStats)
}

// GetStats returns usage counters
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.workspaces.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
