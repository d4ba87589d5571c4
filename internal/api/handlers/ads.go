package handlers

import (
	"strconv"
	"time"

	"ad-panel/internal/config"
	"ad-panel/internal/models"
	"ad-panel/internal/services"

	"github.com/gin-gonic/gin"
)

type AdHandler struct {
	adService      *services.AdService
	renderService  *services.RenderService
	renewalService *services.RenewalLogService
	settings       *services.SettingsService
	opLog          *services.OperationLogService
}

func NewAdHandler(cfg *config.Config) *AdHandler {
	return &AdHandler{
		adService:      services.NewAdService(cfg),
		renderService:  services.NewRenderService(cfg),
		renewalService: services.NewRenewalLogService(cfg),
		settings:       services.NewSettingsService(cfg),
		opLog:          services.NewOperationLogService(cfg),
	}
}

// currentUsername returns the authenticated username or empty for public
// requests.
func currentUsername(c *gin.Context) string {
	if user, exists := c.Get("user"); exists {
		return user.(*models.User).Username
	}
	return ""
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, 400, "Invalid ad ID")
		return 0, false
	}
	return uint(id), true
}

// dateLayouts accepted for start/end date inputs.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ListAds returns one page of ads with optional filtering
func (h *AdHandler) ListAds(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit > 100 {
		respondError(c, 400, "Limit must be between 1 and 100")
		return
	}

	region := c.Query("region")
	if region != "" && !models.IsValidRegion(region) {
		respondError(c, 400, "Invalid region")
		return
	}
	status := c.Query("status")
	if status != "" && status != models.AdStatusActive && status != models.AdStatusInactive {
		respondError(c, 400, "Invalid status")
		return
	}

	ads, total, err := h.adService.ListAds(services.ListOptions{
		Page:   page,
		Limit:  limit,
		Region: region,
		Status: status,
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if limit < 1 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	respondOK(c, gin.H{
		"ads": h.renderService.ClassifyAll(ads, time.Now()),
		"pagination": services.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

// Frontend serves the legacy inline script consumed by the public page.
func (h *AdHandler) Frontend(c *gin.Context) {
	fragment, err := h.renderService.FrontendFragment()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Data(200, "application/javascript; charset=utf-8", []byte(fragment))
}

// Statistics returns per-region active/inactive/total counts.
func (h *AdHandler) Statistics(c *gin.Context) {
	stats, err := h.adService.RegionStatistics()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stats)
}

// Expiring returns active ads ending within the warning window.
func (h *AdHandler) Expiring(c *gin.Context) {
	days := h.settings.GetInt("expiry_warning_days", 7)
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondError(c, 400, "days must be a positive integer")
			return
		}
		days = parsed
	}

	ads, err := h.adService.GetExpiringAds(days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, h.renderService.ClassifyAll(ads, time.Now()))
}

// GetAd returns a single ad
func (h *AdHandler) GetAd(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ad, err := h.adService.GetAd(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, ad)
}

type CreateAdRequest struct {
	Title      string `json:"title" binding:"required,max=200"`
	Content    string `json:"content" binding:"required"`
	Link       string `json:"link" binding:"required,url,max=500"`
	Region     string `json:"region" binding:"required,oneof=yellow white lightYellow cyan"`
	StartDate  string `json:"startDate" binding:"required"`
	EndDate    string `json:"endDate" binding:"required"`
	Experience string `json:"experience" binding:"max=100"`
	Version    string `json:"version" binding:"max=100"`
	SortWeight int    `json:"sortWeight"`
	Status     string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// CreateAd creates a new ad
func (h *AdHandler) CreateAd(c *gin.Context) {
	var req CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	startDate, ok := parseDate(req.StartDate)
	if !ok {
		respondError(c, 400, "startDate is not a valid date")
		return
	}
	endDate, ok := parseDate(req.EndDate)
	if !ok {
		respondError(c, 400, "endDate is not a valid date")
		return
	}
	if !endDate.After(startDate) {
		respondError(c, 400, "endDate must be after startDate")
		return
	}

	status := req.Status
	if status == "" {
		status = models.AdStatusActive
	}

	operator := currentUsername(c)
	ad := &models.Ad{
		Title:      req.Title,
		Content:    req.Content,
		Link:       req.Link,
		Region:     req.Region,
		StartDate:  startDate,
		EndDate:    endDate,
		Experience: req.Experience,
		Version:    req.Version,
		SortWeight: req.SortWeight,
		Status:     status,
		CreateUser: operator,
		UpdateUser: operator,
	}
	if err := h.adService.CreateAd(ad); err != nil {
		respondServiceError(c, err)
		return
	}

	h.opLog.LogAdOperation(operator, models.OpAdd, ad.Title, c.ClientIP(), c.GetHeader("User-Agent"))
	respondCreated(c, "Ad created successfully", ad)
}

type UpdateAdRequest struct {
	Title      *string `json:"title" binding:"omitempty,max=200"`
	Content    *string `json:"content"`
	Link       *string `json:"link" binding:"omitempty,url,max=500"`
	Region     *string `json:"region" binding:"omitempty,oneof=yellow white lightYellow cyan"`
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`
	Experience *string `json:"experience" binding:"omitempty,max=100"`
	Version    *string `json:"version" binding:"omitempty,max=100"`
	SortWeight *int    `json:"sortWeight"`
	Status     *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UpdateAd applies a partial update
func (h *AdHandler) UpdateAd(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	upd := services.AdUpdate{
		Title:      req.Title,
		Content:    req.Content,
		Link:       req.Link,
		Region:     req.Region,
		Experience: req.Experience,
		Version:    req.Version,
		SortWeight: req.SortWeight,
		Status:     req.Status,
	}
	if req.StartDate != nil {
		t, ok := parseDate(*req.StartDate)
		if !ok {
			respondError(c, 400, "startDate is not a valid date")
			return
		}
		upd.StartDate = &t
	}
	if req.EndDate != nil {
		t, ok := parseDate(*req.EndDate)
		if !ok {
			respondError(c, 400, "endDate is not a valid date")
			return
		}
		upd.EndDate = &t
	}

	// Validate the resulting window when either bound moves.
	if upd.StartDate != nil || upd.EndDate != nil {
		existing, err := h.adService.GetAd(id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		start := existing.StartDate
		end := existing.EndDate
		if upd.StartDate != nil {
			start = *upd.StartDate
		}
		if upd.EndDate != nil {
			end = *upd.EndDate
		}
		if !end.After(start) {
			respondError(c, 400, "endDate must be after startDate")
			return
		}
	}

	operator := currentUsername(c)
	ad, err := h.adService.UpdateAd(id, upd, operator)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	opType := models.OpEdit
	if req.Status != nil {
		opType = models.OpStatusChange
	}
	h.opLog.LogAdOperation(operator, opType, ad.Title, c.ClientIP(), c.GetHeader("User-Agent"))
	respondMessage(c, "Ad updated successfully", ad)
}

// DeleteAd removes an ad
func (h *AdHandler) DeleteAd(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ad, err := h.adService.GetAd(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.adService.DeleteAd(id); err != nil {
		respondServiceError(c, err)
		return
	}

	operator := currentUsername(c)
	h.opLog.LogAdOperation(operator, models.OpDelete, ad.Title, c.ClientIP(), c.GetHeader("User-Agent"))
	respondMessage(c, "Ad deleted successfully", gin.H{"id": id})
}

type UpdatePositionRequest struct {
	SortWeight *int `json:"sortWeight" binding:"required"`
}

// UpdatePosition changes an ad's sort weight
func (h *AdHandler) UpdatePosition(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	operator := currentUsername(c)
	ad, err := h.adService.UpdatePosition(id, *req.SortWeight, operator)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.opLog.LogAdOperation(operator, models.OpEdit, ad.Title, c.ClientIP(), c.GetHeader("User-Agent"))
	respondMessage(c, "Ad position updated successfully", gin.H{"id": id, "sort_weight": ad.SortWeight})
}

type RenewAdRequest struct {
	NewEndDate string   `json:"newEndDate" binding:"required"`
	Amount     *float64 `json:"amount"`
	Remark     string   `json:"remark" binding:"max=500"`
}

// RenewAd extends an ad's end date and records the ledger entry
func (h *AdHandler) RenewAd(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req RenewAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	newEnd, okDate := parseDate(req.NewEndDate)
	if !okDate {
		respondError(c, 400, "newEndDate is not a valid date")
		return
	}

	operator := currentUsername(c)
	entry, err := h.adService.Renew(id, newEnd, operator, services.RenewOptions{
		Amount: req.Amount,
		Remark: req.Remark,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ad, _ := h.adService.GetAd(id)
	title := ""
	if ad != nil {
		title = ad.Title
	}
	h.opLog.LogAdOperation(operator, models.OpRenew, title, c.ClientIP(), c.GetHeader("User-Agent"))
	respondMessage(c, "Ad renewed successfully", entry)
}

// RenewalHistory lists the renewal ledger entries of one ad
func (h *AdHandler) RenewalHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if _, err := h.adService.GetAd(id); err != nil {
		respondServiceError(c, err)
		return
	}

	logs, err := h.renewalService.AdRenewalHistory(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, logs)
}

type BatchStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required,min=1"`
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

// BatchUpdateStatus toggles status on a set of ads in one statement
func (h *AdHandler) BatchUpdateStatus(c *gin.Context) {
	var req BatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	operator := currentUsername(c)
	affected, err := h.adService.BatchUpdateStatus(req.IDs, req.Status, operator)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.opLog.LogOperation(services.LogEntry{
		UserName:        operator,
		OperationType:   models.OpStatusChange,
		OperationDetail: "用户 " + operator + " 批量更改广告状态",
		IPAddress:       c.ClientIP(),
		UserAgent:       c.GetHeader("User-Agent"),
	})
	respondMessage(c, "Ad status updated", gin.H{"affected": affected})
}

// RenewalStatistics aggregates the renewal ledger
func (h *AdHandler) RenewalStatistics(c *gin.Context) {
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

	stats, err := h.renewalService.Statistics(startDate, endDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stats)
}
