package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"ad-panel/internal/api/routes"
	"ad-panel/internal/config"
	"ad-panel/internal/models"
	"ad-panel/internal/services"
	"ad-panel/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.New(cfg.Log)
	defer appLog.Sync()

	// Initialize database
	if err := models.InitDB(cfg); err != nil {
		appLog.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Seed settings and the default user on first run
	if err := services.NewSettingsService(cfg).InitializeDefaults(); err != nil {
		appLog.Warn("Failed to seed default settings", zap.Error(err))
	}
	authService := services.NewAuthService(cfg)
	if err := authService.CreateDefaultUser(); err != nil {
		appLog.Warn("Failed to create default user", zap.Error(err))
	}

	// Expired sessions are cleaned up in the background.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := authService.DeleteExpiredSessions(); err != nil {
				appLog.Warn("Session cleanup failed", zap.Error(err))
			}
		}
	}()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	routes.SetupRoutes(r, cfg, appLog)

	// Serve the legacy public page
	frontendDir := filepath.Join("web", "frontend")
	r.Static("/public", frontendDir)
	r.StaticFile("/favicon.ico", filepath.Join(frontendDir, "favicon.ico"))
	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(frontendDir, "index.html"))
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLog.Info("Starting ad panel server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		appLog.Fatal("Failed to start server", zap.Error(err))
	}
}
