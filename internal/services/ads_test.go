package services

import (
	"testing"
	"time"

	"ad-panel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAd(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endDate time.Time
		want    AdState
	}{
		{"ended yesterday", now.AddDate(0, 0, -1), StateExpired},
		{"ends exactly now", now, StateExpired},
		{"ends in three days", now.AddDate(0, 0, 3), StateExpiring},
		{"ends on the warning boundary", now.AddDate(0, 0, 7), StateExpiring},
		{"ends in thirty days", now.AddDate(0, 0, 30), StateActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ad := &models.Ad{EndDate: tt.endDate}
			assert.Equal(t, tt.want, ClassifyAd(ad, now, 7))
		})
	}
}

func TestRemainingDaysNeverNegative(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	ad := &models.Ad{EndDate: now.AddDate(0, 0, -30)}
	assert.Equal(t, 0, ad.RemainingDays(now))

	// Partial days round up.
	ad = &models.Ad{EndDate: now.Add(36 * time.Hour)}
	assert.Equal(t, 2, ad.RemainingDays(now))
}

func TestListAds(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAdService(cfg)
	future := time.Now().AddDate(0, 0, 30)

	createTestAd(t, models.RegionYellow, future, func(ad *models.Ad) {
		ad.Title = "经典复古一区"
		ad.SortWeight = 5
	})
	createTestAd(t, models.RegionYellow, future, func(ad *models.Ad) {
		ad.Title = "微变二区"
		ad.SortWeight = 10
	})
	createTestAd(t, models.RegionWhite, future, func(ad *models.Ad) {
		ad.Title = "白区广告"
		ad.Status = models.AdStatusInactive
	})

	t.Run("filters by region", func(t *testing.T) {
		ads, total, err := svc.ListAds(ListOptions{Region: models.RegionYellow})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, ads, 2)
		// Default sort is sort_weight descending.
		assert.Equal(t, "微变二区", ads[0].Title)
	})

	t.Run("filters by status", func(t *testing.T) {
		ads, total, err := svc.ListAds(ListOptions{Status: models.AdStatusInactive})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "白区广告", ads[0].Title)
	})

	t.Run("free text search", func(t *testing.T) {
		ads, total, err := svc.ListAds(ListOptions{Search: "经典"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "经典复古一区", ads[0].Title)
	})

	t.Run("pagination", func(t *testing.T) {
		ads, total, err := svc.ListAds(ListOptions{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, ads, 1)
	})
}

func TestRegionStatistics(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAdService(cfg)
	future := time.Now().AddDate(0, 0, 30)

	createTestAd(t, models.RegionYellow, future, nil)
	createTestAd(t, models.RegionYellow, future, func(ad *models.Ad) {
		ad.Status = models.AdStatusInactive
	})
	createTestAd(t, models.RegionCyan, future, nil)

	stats, err := svc.RegionStatistics()
	require.NoError(t, err)

	// Every known region is present even when empty.
	for _, region := range models.Regions() {
		assert.Contains(t, stats, region)
	}

	assert.Equal(t, RegionStats{Active: 1, Inactive: 1, Total: 2}, stats[models.RegionYellow])
	assert.Equal(t, RegionStats{Active: 1, Total: 1}, stats[models.RegionCyan])
	assert.Equal(t, RegionStats{}, stats[models.RegionWhite])

	total := 0
	for _, s := range stats {
		total += s.Total
	}
	assert.Equal(t, 3, total)
}

func TestSearchOrdering(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAdService(cfg)
	future := time.Now().AddDate(0, 0, 30)

	createTestAd(t, models.RegionYellow, future, func(ad *models.Ad) {
		ad.Title = "经典低权重"
		ad.SortWeight = 1
	})
	createTestAd(t, models.RegionYellow, future, func(ad *models.Ad) {
		ad.Title = "经典高权重"
		ad.SortWeight = 9
	})
	createTestAd(t, models.RegionWhite, future, func(ad *models.Ad) {
		ad.Title = "经典白区"
		ad.SortWeight = 5
	})

	ads, err := svc.Search("经典", SearchFilters{Region: models.RegionYellow})
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, "经典高权重", ads[0].Title)
	assert.Equal(t, "经典低权重", ads[1].Title)
}

func TestRenew(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAdService(cfg)

	t.Run("extends and records the delta", func(t *testing.T) {
		end := time.Now().AddDate(0, 0, 10).Truncate(time.Second)
		ad := createTestAd(t, models.RegionYellow, end, nil)

		newEnd := end.AddDate(0, 0, 14)
		entry, err := svc.Renew(ad.ID, newEnd, "admin", RenewOptions{Remark: "续两周"})
		require.NoError(t, err)

		assert.Equal(t, 14, entry.RenewalDays)
		assert.Equal(t, 2, entry.RenewalWeeks)
		assert.Equal(t, 0, entry.RenewalMonths)
		assert.Equal(t, "admin", entry.RenewalUser)

		updated, err := svc.GetAd(ad.ID)
		require.NoError(t, err)
		assert.WithinDuration(t, newEnd, updated.EndDate, time.Second)
		assert.Equal(t, "admin", updated.UpdateUser)
	})

	t.Run("forty five days spans a month", func(t *testing.T) {
		end := time.Now().AddDate(0, 0, 5).Truncate(time.Second)
		ad := createTestAd(t, models.RegionWhite, end, nil)

		entry, err := svc.Renew(ad.ID, end.AddDate(0, 0, 45), "admin", RenewOptions{})
		require.NoError(t, err)
		assert.Equal(t, 45, entry.RenewalDays)
		assert.Equal(t, 6, entry.RenewalWeeks)
		assert.Equal(t, 1, entry.RenewalMonths)
	})

	t.Run("rejects a non-extending date and leaves state untouched", func(t *testing.T) {
		end := time.Now().AddDate(0, 0, 10).Truncate(time.Second)
		ad := createTestAd(t, models.RegionCyan, end, nil)

		_, err := svc.Renew(ad.ID, end.AddDate(0, 0, -1), "admin", RenewOptions{})
		assert.ErrorIs(t, err, ErrInvalidRenewal)

		_, err = svc.Renew(ad.ID, end, "admin", RenewOptions{})
		assert.ErrorIs(t, err, ErrInvalidRenewal)

		unchanged, err := svc.GetAd(ad.ID)
		require.NoError(t, err)
		assert.WithinDuration(t, end, unchanged.EndDate, time.Second)

		var count int64
		models.DB.Model(&models.RenewalLog{}).Where("ad_id = ?", ad.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("unknown ad", func(t *testing.T) {
		_, err := svc.Renew(99999, time.Now().AddDate(0, 1, 0), "admin", RenewOptions{})
		assert.ErrorIs(t, err, ErrAdNotFound)
	})
}

func TestBatchUpdateStatus(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAdService(cfg)
	future := time.Now().AddDate(0, 0, 30)

	a := createTestAd(t, models.RegionYellow, future, nil)
	b := createTestAd(t, models.RegionYellow, future, nil)
	c := createTestAd(t, models.RegionWhite, future, nil)

	affected, err := svc.BatchUpdateStatus([]uint{a.ID, b.ID}, models.AdStatusInactive, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	for _, id := range []uint{a.ID, b.ID} {
		ad, err := svc.GetAd(id)
		require.NoError(t, err)
		assert.Equal(t, models.AdStatusInactive, ad.Status)
		assert.Equal(t, "admin", ad.UpdateUser)
	}

	untouched, err := svc.GetAd(c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusActive, untouched.Status)
}

func TestGetExpiringAds(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAdService(cfg)
	now := time.Now()

	soon := createTestAd(t, models.RegionYellow, now.AddDate(0, 0, 3), nil)
	createTestAd(t, models.RegionYellow, now.AddDate(0, 0, 30), nil)
	createTestAd(t, models.RegionWhite, now.AddDate(0, 0, -1), nil)
	createTestAd(t, models.RegionCyan, now.AddDate(0, 0, 2), func(ad *models.Ad) {
		ad.Status = models.AdStatusInactive
	})

	ads, err := svc.GetExpiringAds(7)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, soon.ID, ads[0].ID)

	expired, err := svc.GetExpiredAds()
	require.NoError(t, err)
	require.Len(t, expired, 1)
}

func TestDeleteAdIsHard(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAdService(cfg)
	ad := createTestAd(t, models.RegionYellow, time.Now().AddDate(0, 0, 30), nil)

	require.NoError(t, svc.DeleteAd(ad.ID))

	_, err := svc.GetAd(ad.ID)
	assert.ErrorIs(t, err, ErrAdNotFound)

	var count int64
	models.DB.Unscoped().Model(&models.Ad{}).Where("id = ?", ad.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
