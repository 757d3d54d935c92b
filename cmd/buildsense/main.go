package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liliang-cn/buildsense/internal/api"
	"github.com/liliang-cn/buildsense/internal/config"
	"github.com/liliang-cn/buildsense/internal/drive"
	"github.com/liliang-cn/buildsense/internal/ingest"
	"github.com/liliang-cn/buildsense/internal/llm"
	"github.com/liliang-cn/buildsense/internal/repository"
	"github.com/liliang-cn/buildsense/internal/service"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()
	printBanner()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Transcript store, in memory unless a path is configured
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	workspaceRepo := repository.NewWorkspaceRepository(db)

	browser := drive.NewBrowser(cfg.Drive, nil, logger)
	if !cfg.DriveConfigured() {
		logger.Warn("Drive OAuth client not configured",
			zap.Bool("demo_mode", cfg.Drive.DemoMode),
		)
	}
	adapter := ingest.NewAdapter(browser, cfg.Storage.MaxUploadBytes)

	// Initialize the Gemini client; without it analysis and chat report upstream failures
	var analyzer service.Analyzer
	var advisor service.Advisor
	client, err := llm.NewGeminiClient(context.Background(), cfg.LLM, logger)
	if err != nil {
		logger.Warn("Failed to initialize Gemini client, running without LLM", zap.Error(err))
	} else {
		analyzer = client
		advisor = client
	}

	// Initialize services
	workspaceService := service.NewWorkspaceService(workspaceRepo, adapter, logger)
	analysisService := service.NewAnalysisService(workspaceService, adapter, analyzer, logger)
	chatService := service.NewChatService(workspaceService, workspaceRepo, advisor, logger)
	driveService := service.NewDriveService(browser, logger)

	// Setup router
	router := api.SetupRouter(api.Services{
		Workspaces: workspaceService,
		Analysis:   analysisService,
		Chat:       chatService,
		Drive:      driveService,
	}, logger, api.RouterConfig{
		APIKey:         cfg.Admin.APIKey,
		AllowOrigins:   cfg.Server.AllowOrigins,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})

	// Analysis calls can run long; the write timeout is their only bound
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting BuildSense server",
			zap.String("address", cfg.Address()),
			zap.String("base_url", cfg.Server.BaseURL),
			zap.String("model", cfg.LLM.Model),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func printBanner() {
	banner := `
 ___      _ _    _ ___
| _ )_  _(_) |__| / __| ___ _ _  ___ ___
| _ \ || | | / _  \__ \/ -_) ' \(_-</ -_)
|___/\_,_|_|_\__,_|___/\___|_||_/__/\___|
`

	fmt.Println(banner)
}
