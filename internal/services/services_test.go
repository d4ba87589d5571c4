package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"ad-panel/internal/config"
	"ad-panel/internal/models"

	"github.com/stretchr/testify/require"
)

// setupTestDB initializes a throwaway sqlite database
func setupTestDB(t *testing.T) *config.Config {
	tmpDir := os.TempDir()
	testDBPath := fmt.Sprintf("%s/adpanel_test_%d.db", tmpDir, time.Now().UnixNano())

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type: "sqlite",
			SQLite: config.SQLiteConfig{
				Path: testDBPath,
			},
		},
		JWT: config.JWTConfig{
			Secret:    "test-secret-key-for-testing-only",
			ExpiresIn: "24h",
			Issuer:    "ad-panel-test",
		},
		Security: config.SecurityConfig{
			BcryptCost: 10,
		},
	}

	err := models.InitDB(cfg)
	require.NoError(t, err)

	return cfg
}

// cleanupTestDB closes and removes the test database
func cleanupTestDB(t *testing.T, cfg *config.Config) {
	if models.DB != nil {
		sqlDB, err := models.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
		if cfg != nil && cfg.Database.Type == "sqlite" {
			os.Remove(cfg.Database.SQLite.Path)
		}
	}
	models.DB = nil
}

// createTestAd inserts an ad with sensible defaults
func createTestAd(t *testing.T, region string, endDate time.Time, overrides func(*models.Ad)) *models.Ad {
	ad := &models.Ad{
		Title:     "测试广告",
		Content:   "独家版本长久稳定",
		Link:      "http://example.com/ad",
		Region:    region,
		StartDate: time.Now().AddDate(0, 0, -7),
		EndDate:   endDate,
		Status:    models.AdStatusActive,
	}
	if overrides != nil {
		overrides(ad)
	}
	require.NoError(t, models.DB.Create(ad).Error)
	return ad
}
