package handlers

import (
	"time"

	"ad-panel/internal/models"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Health reports service and database status
func (h *HealthHandler) Health(c *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := models.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
	}

	respondOK(c, gin.H{
		"status":   "ok",
		"database": dbStatus,
		"uptime":   time.Since(h.startedAt).Round(time.Second).String(),
		"time":     time.Now().Format(time.RFC3339),
	})
}

// Ping is a bare liveness probe
func (h *HealthHandler) Ping(c *gin.Context) {
	respondOK(c, gin.H{"message": "pong"})
}
