package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenewalLedger(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	adSvc := NewAdService(cfg)
	svc := NewRenewalLogService(cfg)

	end := time.Now().AddDate(0, 0, 10).Truncate(time.Second)
	ad := createTestAd(t, "yellow", end, nil)
	other := createTestAd(t, "white", end, nil)

	amount := 200.0
	_, err := adSvc.Renew(ad.ID, end.AddDate(0, 0, 7), "admin", RenewOptions{Amount: &amount})
	require.NoError(t, err)
	_, err = adSvc.Renew(ad.ID, end.AddDate(0, 0, 21), "admin", RenewOptions{})
	require.NoError(t, err)
	_, err = adSvc.Renew(other.ID, end.AddDate(0, 0, 30), "operator", RenewOptions{})
	require.NoError(t, err)

	t.Run("per-ad history preloads the ad", func(t *testing.T) {
		logs, err := svc.AdRenewalHistory(ad.ID)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		require.NotNil(t, logs[0].Ad)
		assert.Equal(t, ad.ID, logs[0].Ad.ID)
	})

	t.Run("per-user view", func(t *testing.T) {
		logs, err := svc.UserRenewals("admin", 0)
		require.NoError(t, err)
		assert.Len(t, logs, 2)

		logs, err = svc.UserRenewals("operator", 0)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})

	t.Run("aggregate statistics", func(t *testing.T) {
		stats, err := svc.Statistics(nil, nil)
		require.NoError(t, err)

		assert.Equal(t, int64(3), stats.TotalRenewals)
		// 7 + 14 + 30 days across the three renewals.
		assert.Equal(t, int64(51), stats.TotalDays)
		assert.Equal(t, 200.0, stats.TotalAmount)
		assert.InDelta(t, 17.0, stats.AvgDays, 0.01)
	})
}
