package api

import (
	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/buildsense/internal/api/admin"
	"github.com/liliang-cn/buildsense/internal/api/middleware"
	"github.com/liliang-cn/buildsense/internal/api/picker"
	"github.com/liliang-cn/buildsense/internal/api/workspace"
	"github.com/liliang-cn/buildsense/internal/service"
	"go.uber.org/zap"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
	// MaxUploadBytes bounds the multipart memory buffer
	MaxUploadBytes int64
}

// Services bundles the services exposed over HTTP
type Services struct {
	Workspaces *service.WorkspaceService
	Analysis   *service.AnalysisService
	Chat       *service.ChatService
	Drive      *service.DriveService
}

// SetupRouter sets up the Gin router
func SetupRouter(svc Services, logger *zap.Logger, cfg RouterConfig) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))

	if cfg.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Dashboard page
	SetupStaticRoutes(r)

	workspaceHandler := workspace.NewHandler(svc.Workspaces, svc.Analysis, svc.Chat)
	workspaceHandler.RegisterRoutes(r.Group("/api/workspaces"))

	pickerHandler := picker.NewHandler(svc.Drive)
	pickerHandler.RegisterRoutes(r.Group("/api/drive"))

	// Admin API (requires API key)
	adminHandler := admin.NewHandler(svc.Workspaces)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.Auth(cfg.APIKey))
	adminHandler.RegisterRoutes(adminGroup)

	return r
}
