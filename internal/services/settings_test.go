package services

import (
	"testing"

	"ad-panel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsTypedRoundTrip(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewSettingsService(cfg)

	t.Run("number comes back numeric", func(t *testing.T) {
		_, err := svc.SetValue("page_size", 20, SetOptions{})
		require.NoError(t, err)

		v := svc.GetValue("page_size", nil)
		assert.Equal(t, float64(20), v)
		assert.Equal(t, 20, svc.GetInt("page_size", 0))
	})

	t.Run("boolean accepts true and 1", func(t *testing.T) {
		_, err := svc.SetValue("maintenance_mode", true, SetOptions{})
		require.NoError(t, err)
		assert.Equal(t, true, svc.GetBool("maintenance_mode", false))

		models.DB.Model(&models.SystemSetting{}).
			Where("setting_key = ?", "maintenance_mode").
			Update("setting_value", "1")
		assert.Equal(t, true, svc.GetBool("maintenance_mode", false))

		models.DB.Model(&models.SystemSetting{}).
			Where("setting_key = ?", "maintenance_mode").
			Update("setting_value", "false")
		assert.Equal(t, false, svc.GetBool("maintenance_mode", true))
	})

	t.Run("json round trips structured values", func(t *testing.T) {
		_, err := svc.SetValue("banner_colors", []string{"red", "blue"}, SetOptions{})
		require.NoError(t, err)

		v := svc.GetValue("banner_colors", nil)
		assert.Equal(t, []interface{}{"red", "blue"}, v)
	})

	t.Run("malformed stored value falls back to the default", func(t *testing.T) {
		_, err := svc.SetValue("broken_number", 5, SetOptions{})
		require.NoError(t, err)
		models.DB.Model(&models.SystemSetting{}).
			Where("setting_key = ?", "broken_number").
			Update("setting_value", "not-a-number")

		assert.Equal(t, 42, svc.GetInt("broken_number", 42))
	})

	t.Run("missing key returns the default", func(t *testing.T) {
		assert.Equal(t, "fallback", svc.GetString("no_such_key", "fallback"))
	})
}

func TestSettingsTypeDetection(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewSettingsService(cfg)

	tests := []struct {
		key      string
		value    interface{}
		wantType string
	}{
		{"det_int", 7, models.SettingTypeNumber},
		{"det_float", 1.5, models.SettingTypeNumber},
		{"det_bool", true, models.SettingTypeBoolean},
		{"det_string", "hello", models.SettingTypeString},
		{"det_map", map[string]int{"a": 1}, models.SettingTypeJSON},
	}

	for _, tt := range tests {
		setting, err := svc.SetValue(tt.key, tt.value, SetOptions{})
		require.NoError(t, err)
		assert.Equal(t, tt.wantType, setting.SettingType, tt.key)
	}
}

func TestSettingsDescriptionPreserved(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewSettingsService(cfg)

	_, err := svc.SetValue("page_size", 20, SetOptions{Description: "每页显示数量"})
	require.NoError(t, err)

	// An update without a description keeps the old one.
	setting, err := svc.SetValue("page_size", 50, SetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "每页显示数量", setting.Description)
	assert.Equal(t, "50", setting.SettingValue)

	setting, err = svc.SetValue("page_size", 30, SetOptions{Description: "new text"})
	require.NoError(t, err)
	assert.Equal(t, "new text", setting.Description)
}

func TestSettingsEditabilityPersisted(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewSettingsService(cfg)
	notEditable := false

	_, err := svc.SetValue("system_name", "58信息网广告管理系统", SetOptions{IsEditable: &notEditable})
	require.NoError(t, err)

	// The flag must survive the insert as stored, not as a column default.
	var row models.SystemSetting
	require.NoError(t, models.DB.Where("setting_key = ?", "system_name").First(&row).Error)
	assert.False(t, row.IsEditable)

	// An update without an explicit flag keeps the stored one.
	_, err = svc.SetValue("system_name", "新名字", SetOptions{})
	require.NoError(t, err)
	require.NoError(t, models.DB.Where("setting_key = ?", "system_name").First(&row).Error)
	assert.False(t, row.IsEditable)

	_, err = svc.SetValue("page_size", 20, SetOptions{})
	require.NoError(t, err)
	require.NoError(t, models.DB.Where("setting_key = ?", "page_size").First(&row).Error)
	assert.True(t, row.IsEditable)
}

func TestSettingsDelete(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewSettingsService(cfg)
	notEditable := false

	_, err := svc.SetValue("system_name", "58信息网广告管理系统", SetOptions{IsEditable: &notEditable})
	require.NoError(t, err)
	_, err = svc.SetValue("page_size", 20, SetOptions{})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteSetting("system_name"), ErrSettingNotEditable)
	assert.ErrorIs(t, svc.DeleteSetting("missing"), ErrSettingNotFound)

	require.NoError(t, svc.DeleteSetting("page_size"))
	_, err = svc.GetSetting("page_size")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestInitializeDefaults(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewSettingsService(cfg)

	// A pre-existing key survives seeding.
	_, err := svc.SetValue("expiry_warning_days", 14, SetOptions{})
	require.NoError(t, err)

	require.NoError(t, svc.InitializeDefaults())

	assert.Equal(t, 14, svc.GetInt("expiry_warning_days", 0))
	assert.Equal(t, 20, svc.GetInt("page_size", 0))
	assert.Equal(t, "58信息网广告管理系统", svc.GetString("system_name", ""))
	assert.Equal(t, false, svc.GetBool("maintenance_mode", true))

	name, err := svc.GetSetting("system_name")
	require.NoError(t, err)
	assert.False(t, name.IsEditable)

	// Seeding twice is a no-op.
	require.NoError(t, svc.InitializeDefaults())
	all, err := svc.GetAllSettings()
	require.NoError(t, err)
	assert.Len(t, all, 11)
}
