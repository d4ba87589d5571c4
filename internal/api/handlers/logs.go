package handlers

import (
	"strconv"
	"time"

	"ad-panel/internal/config"
	"ad-panel/internal/services"

	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	opLog *services.OperationLogService
}

func NewLogHandler(cfg *config.Config) *LogHandler {
	return &LogHandler{
		opLog: services.NewOperationLogService(cfg),
	}
}

// SearchLogs filters the operation audit trail
func (h *LogHandler) SearchLogs(c *gin.Context) {
	params := services.LogSearchParams{
		UserName:      c.Query("username"),
		OperationType: c.Query("type"),
		Status:        c.Query("status"),
		IPAddress:     c.Query("ip"),
	}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 1000 {
			respondError(c, 400, "limit must be between 1 and 1000")
			return
		}
		params.Limit = limit
	}
	if v := c.Query("startDate"); v != "" {
		t, ok := parseDate(v)
		if !ok {
			respondError(c, 400, "startDate is not a valid date")
			return
		}
		params.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, ok := parseDate(v)
		if !ok {
			respondError(c, 400, "endDate is not a valid date")
			return
		}
		params.EndDate = &t
	}

	logs, err := h.opLog.SearchLogs(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, logs)
}

// LogStatistics aggregates audit entries per operation type
func (h *LogHandler) LogStatistics(c *gin.Context) {
	var startDate, endDate *time.Time
	if v := c.Query("startDate"); v != "" {
		t, ok := parseDate(v)
		if !ok {
			respondError(c, 400, "startDate is not a valid date")
			return
		}
		startDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, ok := parseDate(v)
		if !ok {
			respondError(c, 400, "endDate is not a valid date")
			return
		}
		endDate = &t
	}

	stats, err := h.opLog.OperationTypeStats(startDate, endDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stats)
}

type CleanLogsRequest struct {
	DaysToKeep int `json:"daysToKeep" binding:"omitempty,min=1"`
}

// CleanLogs removes audit entries older than the retention window
func (h *LogHandler) CleanLogs(c *gin.Context) {
	var req CleanLogsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
	}

	removed, err := h.opLog.CleanOldLogs(req.DaysToKeep)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "Old logs removed", gin.H{"removed": removed})
}
