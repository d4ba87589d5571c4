package routes

import (
	"path/filepath"
	"strings"

	"ad-panel/internal/api/handlers"
	"ad-panel/internal/api/middleware"
	"ad-panel/internal/config"
	"ad-panel/internal/models"
	"ad-panel/internal/services"
	"ad-panel/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, log *logger.Logger) {
	authService := services.NewAuthService(cfg)

	adHandler := handlers.NewAdHandler(cfg)
	authHandler := handlers.NewAuthHandler(cfg)
	userHandler := handlers.NewUserHandler(cfg)
	settingsHandler := handlers.NewSettingsHandler(cfg)
	logHandler := handlers.NewLogHandler(cfg)
	healthHandler := handlers.NewHealthHandler()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware(cfg.Security.CORSOrigins))
	r.Use(middleware.RateLimitMiddleware(cfg.Security.RateLimit))

	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, cfg.API.Prefix) {
			c.JSON(404, gin.H{
				"success": false,
				"error": gin.H{
					"message": "Not found",
					"status":  404,
				},
			})
			return
		}
		// Everything else falls back to the public page.
		c.File(filepath.Join("web", "frontend", "index.html"))
	})

	// Hidden admin entry, registered only when a path is configured.
	if cfg.Admin.EntryPath != "" {
		adminHandler := handlers.NewAdminHandler(cfg)
		r.GET("/"+cfg.Admin.EntryPath, adminHandler.Entry)
		r.POST("/"+cfg.Admin.EntryPath, adminHandler.Entry)
	}

	api := r.Group(cfg.API.Prefix)
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/health/ping", healthHandler.Ping)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		// Public read endpoints backing the frontend page.
		api.GET("/ads", adHandler.ListAds)
		api.GET("/ads/frontend", adHandler.Frontend)
		api.GET("/ads/statistics", adHandler.Statistics)
		api.GET("/ads/:id", adHandler.GetAd)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.POST("/auth/refresh", authHandler.Refresh)
		protected.GET("/auth/me", authHandler.GetMe)

		operator := middleware.RequireRole(models.RoleOperator)
		admin := middleware.RequireRole(models.RoleAdmin)

		ads := protected.Group("/ads")
		{
			ads.GET("/expiring", adHandler.Expiring)
			ads.POST("", operator, adHandler.CreateAd)
			ads.PUT("/:id", operator, adHandler.UpdateAd)
			ads.DELETE("/:id", operator, adHandler.DeleteAd)
			ads.PATCH("/:id/position", operator, adHandler.UpdatePosition)
			ads.POST("/:id/renew", operator, adHandler.RenewAd)
			ads.GET("/:id/renewals", adHandler.RenewalHistory)
			ads.PATCH("/batch/status", operator, adHandler.BatchUpdateStatus)
		}

		protected.GET("/renewals/statistics", adHandler.RenewalStatistics)

		users := protected.Group("/users")
		{
			users.GET("/profile", authHandler.GetMe)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/change-password", userHandler.ChangePassword)
			users.GET("", admin, userHandler.ListUsers)
			users.GET("/:id", admin, userHandler.GetUser)
			users.POST("", admin, userHandler.CreateUser)
			users.PUT("/:id", admin, userHandler.UpdateUser)
			users.POST("/:id/password", admin, userHandler.UpdatePassword)
			users.DELETE("/:id", admin, userHandler.DeleteUser)
		}

		settings := protected.Group("/settings")
		{
			settings.GET("", settingsHandler.ListSettings)
			settings.GET("/:key", settingsHandler.GetSetting)
			settings.PUT("/:key", operator, settingsHandler.UpdateSetting)
			settings.DELETE("/:key", operator, settingsHandler.DeleteSetting)
		}

		logs := protected.Group("/logs")
		{
			logs.GET("/operations", logHandler.SearchLogs)
			logs.GET("/operations/stats", logHandler.LogStatistics)
			logs.DELETE("/operations/cleanup", admin, logHandler.CleanLogs)
		}
	}
}
