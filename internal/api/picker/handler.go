package picker

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/buildsense/internal/api/respond"
	"github.com/liliang-cn/buildsense/internal/domain"
	"github.com/liliang-cn/buildsense/internal/service"
)

// Handler handles Drive picker requests
type Handler struct {
	driveService *service.DriveService
}

// NewHandler creates a new picker handler
func NewHandler(driveService *service.DriveService) *Handler {
	return &Handler{driveService: driveService}
}

// RegisterRoutes registers picker routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth", h.Authenticate)
	r.GET("/auth/url", h.AuthURL)
	r.GET("/callback", h.Callback)
	r.GET("/files", h.ListFiles)
}

// Authenticate reports whether Drive files can be listed
func (h *Handler) Authenticate(c *gin.Context) {
	ok, err := h.driveService.Authenticate(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": ok})
}

// AuthURL returns the OAuth consent URL
func (h *Handler) AuthURL(c *gin.Context) {
	url, err := h.driveService.AuthURL(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Callback completes the OAuth consent redirect and returns to the dashboard
func (h *Handler) Callback(c *gin.Context) {
	if msg := c.Query("error"); msg != "" {
		respond.Error(c, fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg))
		return
	}

	if err := h.driveService.Callback(c.Request.Context(), c.Query("state"), c.Query("code")); err != nil {
		respond.Error(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ListFiles lists candidate Drive documents
func (h *Handler) ListFiles(c *gin.Context) {
	resp, err := h.driveService.ListFiles(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
