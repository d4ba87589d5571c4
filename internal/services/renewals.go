package services

import (
	"time"

	"ad-panel/internal/config"
	"ad-panel/internal/models"
)

// RenewalLogService queries the renewal ledger. Writing goes through
// AdService.Renew so the ledger entry and the ad update share a transaction.
type RenewalLogService struct {
	cfg *config.Config
}

func NewRenewalLogService(cfg *config.Config) *RenewalLogService {
	return &RenewalLogService{cfg: cfg}
}

// AdRenewalHistory returns all renewals of one ad, newest first.
func (s *RenewalLogService) AdRenewalHistory(adID uint) ([]models.RenewalLog, error) {
	var logs []models.RenewalLog
	err := models.DB.
		Where("ad_id = ?", adID).
		Order("created_at DESC").
		Preload("Ad").
		Find(&logs).Error
	return logs, err
}

// UserRenewals returns renewals performed by one operator, newest first.
func (s *RenewalLogService) UserRenewals(username string, limit int) ([]models.RenewalLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []models.RenewalLog
	err := models.DB.
		Where("renewal_user = ?", username).
		Order("created_at DESC").
		Limit(limit).
		Preload("Ad").
		Find(&logs).Error
	return logs, err
}

// RenewalStatistics aggregates the ledger, optionally within a date range.
type RenewalStatistics struct {
	TotalRenewals int64   `json:"total_renewals"`
	TotalDays     int64   `json:"total_days"`
	TotalAmount   float64 `json:"total_amount"`
	AvgDays       float64 `json:"avg_days"`
}

func (s *RenewalLogService) Statistics(startDate, endDate *time.Time) (*RenewalStatistics, error) {
	query := models.DB.Model(&models.RenewalLog{})
	if startDate != nil && endDate != nil {
		query = query.Where("created_at BETWEEN ? AND ?", *startDate, *endDate)
	}

	var stats RenewalStatistics
	err := query.
		Select("COUNT(id) AS total_renewals, " +
			"COALESCE(SUM(renewal_days), 0) AS total_days, " +
			"COALESCE(SUM(renewal_amount), 0) AS total_amount, " +
			"COALESCE(AVG(renewal_days), 0) AS avg_days").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
