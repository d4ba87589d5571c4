package services

import (
	"errors"
	"time"

	"ad-panel/internal/config"
	"ad-panel/internal/models"

	"gorm.io/gorm"
)

// AdState is the computed life-cycle state of an ad. It is derived from the
// end date, never stored; the status column only distinguishes ads an
// operator disabled from normal ones.
type AdState string

const (
	StateActive   AdState = "active"
	StateExpiring AdState = "expiring"
	StateExpired  AdState = "expired"
)

// ClassifyAd returns exactly one of expired, expiring or active for any
// (ad, now) pair. Expired wins when the end date has passed; expiring when
// the remaining whole days fit inside the warning window.
func ClassifyAd(ad *models.Ad, now time.Time, warningDays int) AdState {
	if ad.IsExpired(now) {
		return StateExpired
	}
	if ad.RemainingDays(now) <= warningDays {
		return StateExpiring
	}
	return StateActive
}

// ceilDays converts a duration to whole days, rounding up.
func ceilDays(d time.Duration) int {
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

type AdService struct {
	cfg *config.Config
}

func NewAdService(cfg *config.Config) *AdService {
	return &AdService{cfg: cfg}
}

// ListOptions narrows and pages the ad listing.
type ListOptions struct {
	Page   int
	Limit  int
	Region string
	Status string
	Search string
	Sort   string
	Order  string
}

// ListAds returns one page of ads plus the unfiltered-in-page total.
func (s *AdService) ListAds(opts ListOptions) ([]models.Ad, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	query := models.DB.Model(&models.Ad{})
	if opts.Region != "" {
		query = query.Where("region = ?", opts.Region)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?) OR LOWER(experience) LIKE LOWER(?) OR LOWER(version) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortColumn := "sort_weight"
	switch opts.Sort {
	case "created_at", "end_date", "start_date", "title", "region":
		sortColumn = opts.Sort
	}
	direction := "DESC"
	if opts.Order == "asc" {
		direction = "ASC"
	}

	var ads []models.Ad
	err := query.
		Order(sortColumn + " " + direction).
		Order("created_at DESC").
		Order("id DESC").
		Offset((opts.Page - 1) * opts.Limit).
		Limit(opts.Limit).
		Find(&ads).Error
	if err != nil {
		return nil, 0, err
	}
	return ads, total, nil
}

func (s *AdService) GetAd(id uint) (*models.Ad, error) {
	var ad models.Ad
	if err := models.DB.First(&ad, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	return &ad, nil
}

func (s *AdService) CreateAd(ad *models.Ad) error {
	return models.DB.Create(ad).Error
}

// AdUpdate carries a partial update; nil fields are left unchanged.
type AdUpdate struct {
	Title      *string
	Content    *string
	Link       *string
	Region     *string
	StartDate  *time.Time
	EndDate    *time.Time
	Experience *string
	Version    *string
	SortWeight *int
	Status     *string
}

func (s *AdService) UpdateAd(id uint, upd AdUpdate, updatedBy string) (*models.Ad, error) {
	ad, err := s.GetAd(id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		ad.Title = *upd.Title
	}
	if upd.Content != nil {
		ad.Content = *upd.Content
	}
	if upd.Link != nil {
		ad.Link = *upd.Link
	}
	if upd.Region != nil {
		ad.Region = *upd.Region
	}
	if upd.StartDate != nil {
		ad.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		ad.EndDate = *upd.EndDate
	}
	if upd.Experience != nil {
		ad.Experience = *upd.Experience
	}
	if upd.Version != nil {
		ad.Version = *upd.Version
	}
	if upd.SortWeight != nil {
		ad.SortWeight = *upd.SortWeight
	}
	if upd.Status != nil {
		ad.Status = *upd.Status
	}
	ad.UpdateUser = updatedBy

	if err := models.DB.Save(ad).Error; err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *AdService) DeleteAd(id uint) error {
	ad, err := s.GetAd(id)
	if err != nil {
		return err
	}
	return models.DB.Delete(ad).Error
}

// UpdatePosition changes only the sort weight of an ad.
func (s *AdService) UpdatePosition(id uint, sortWeight int, updatedBy string) (*models.Ad, error) {
	return s.UpdateAd(id, AdUpdate{SortWeight: &sortWeight}, updatedBy)
}

// BatchUpdateStatus sets status and updater on all matching ids in a single
// update statement and returns the number of rows affected.
func (s *AdService) BatchUpdateStatus(ids []uint, status, updatedBy string) (int64, error) {
	result := models.DB.Model(&models.Ad{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":      status,
			"update_user": updatedBy,
		})
	return result.RowsAffected, result.Error
}

// RegionStats counts ads by operator status within one region bucket.
type RegionStats struct {
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Total    int `json:"total"`
}

// RegionStatistics groups all ads by (region, status). All four known
// regions are present even when zero; unknown region values fall into the
// "other" bucket.
func (s *AdService) RegionStatistics() (map[string]RegionStats, error) {
	type row struct {
		Region string
		Status string
		Count  int
	}
	var rows []row
	err := models.DB.Model(&models.Ad{}).
		Select("region, status, COUNT(id) AS count").
		Group("region").Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]RegionStats, 5)
	for _, region := range models.Regions() {
		stats[region] = RegionStats{}
	}
	for _, r := range rows {
		region := r.Region
		if !models.IsValidRegion(region) {
			region = models.RegionOther
		}
		entry := stats[region]
		switch r.Status {
		case models.AdStatusActive:
			entry.Active += r.Count
		case models.AdStatusInactive:
			entry.Inactive += r.Count
		}
		entry.Total += r.Count
		stats[region] = entry
	}
	return stats, nil
}

// SearchFilters intersects the free-text search with exact and range matches.
type SearchFilters struct {
	Region    string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// Search matches term case-insensitively against title, content, experience
// and version, ordered by sort weight descending then newest first.
func (s *AdService) Search(term string, filters SearchFilters) ([]models.Ad, error) {
	query := models.DB.Model(&models.Ad{})
	if term != "" {
		pattern := "%" + term + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?) OR LOWER(experience) LIKE LOWER(?) OR LOWER(version) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern,
		)
	}
	if filters.Region != "" {
		query = query.Where("region = ?", filters.Region)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.StartDate != nil {
		query = query.Where("start_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("end_date <= ?", *filters.EndDate)
	}

	var ads []models.Ad
	err := query.
		Order("sort_weight DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&ads).Error
	return ads, err
}

// GetExpiringAds returns active ads ending within the next days, soonest
// first. Already-expired ads are excluded.
func (s *AdService) GetExpiringAds(days int) ([]models.Ad, error) {
	now := time.Now()
	warningDate := now.AddDate(0, 0, days)

	var ads []models.Ad
	err := models.DB.
		Where("status = ?", models.AdStatusActive).
		Where("end_date > ? AND end_date <= ?", now, warningDate).
		Order("end_date ASC").
		Find(&ads).Error
	return ads, err
}

// GetExpiredAds returns active-status ads whose end date has passed.
func (s *AdService) GetExpiredAds() ([]models.Ad, error) {
	var ads []models.Ad
	err := models.DB.
		Where("status = ?", models.AdStatusActive).
		Where("end_date <= ?", time.Now()).
		Order("end_date ASC").
		Find(&ads).Error
	return ads, err
}

// RenewOptions carries the optional renewal ledger fields.
type RenewOptions struct {
	Amount *float64
	Remark string
}

// Renew extends an ad's end date and writes the ledger entry in one
// transaction; either both writes land or neither does.
func (s *AdService) Renew(adID uint, newEnd time.Time, operator string, opts RenewOptions) (*models.RenewalLog, error) {
	var entry *models.RenewalLog

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var ad models.Ad
		if err := tx.First(&ad, adID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdNotFound
			}
			return err
		}

		if !newEnd.After(ad.EndDate) {
			return ErrInvalidRenewal
		}

		days := ceilDays(newEnd.Sub(ad.EndDate))
		entry = &models.RenewalLog{
			AdID:          ad.ID,
			OldEndDate:    ad.EndDate,
			NewEndDate:    newEnd,
			RenewalDays:   days,
			RenewalWeeks:  days / 7,
			RenewalMonths: days / 30,
			RenewalAmount: opts.Amount,
			RenewalUser:   operator,
			Remark:        opts.Remark,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		ad.EndDate = newEnd
		ad.UpdateUser = operator
		return tx.Save(&ad).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
