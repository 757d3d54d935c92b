package workspace

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/buildsense/internal/api/respond"
	"github.com/liliang-cn/buildsense/internal/domain"
	"github.com/liliang-cn/buildsense/internal/service"
)

// Handler handles dashboard workspace requests
type Handler struct {
	workspaces *service.WorkspaceService
	analysis   *service.AnalysisService
	chat       *service.ChatService
}

// NewHandler creates a new workspace handler
func NewHandler(workspaces *service.WorkspaceService, analysis *service.AnalysisService, chat *service.ChatService) *Handler {
	return &Handler{
		workspaces: workspaces,
		analysis:   analysis,
		chat:       chat,
	}
}

// RegisterRoutes registers workspace routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("/:id", h.Get)
	r.POST("/:id/documents", h.Upload)
	r.POST("/:id/drive/select", h.SelectDriveFile)
	r.POST("/:id/analysis", h.RunAnalysis)
	r.GET("/:id/analysis", h.GetAnalysis)
	r.GET("/:id/messages", h.ListMessages)
	r.POST("/:id/messages", h.SendMessage)
}

// Create opens a new workspace
func (h *Handler) Create(c *gin.Context) {
	view, err := h.workspaces.Create(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// Get returns the dashboard view of a workspace
func (h *Handler) Get(c *gin.Context) {
	view, err := h.workspaces.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Upload selects a local file as the active document
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			respond.Error(c, domain.ErrNoDocument)
			return
		}
		respond.Error(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	ws, err := h.workspaces.SelectUpload(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ws)
}

// SelectDriveFile selects a Drive file as the active document
func (h *Handler) SelectDriveFile(c *gin.Context) {
	var req domain.SelectDriveFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	ws, err := h.workspaces.SelectDriveFile(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ws)
}

// RunAnalysis analyzes the active document
func (h *Handler) RunAnalysis(c *gin.Context) {
	report, err := h.analysis.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetAnalysis returns the analysis state and latest result
func (h *Handler) GetAnalysis(c *gin.Context) {
	report, err := h.analysis.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListMessages returns the chat transcript
func (h *Handler) ListMessages(c *gin.Context) {
	messages, err := h.chat.Messages(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage sends a chat message to the advisor
func (h *Handler) SendMessage(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, domain.ErrEmptyMessage)
		return
	}

	resp, err := h.chat.Send(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
