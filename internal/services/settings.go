package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"ad-panel/internal/config"
	"ad-panel/internal/models"

	"gorm.io/gorm"
)

// SettingsService stores typed key/value configuration. Values live as text
// with a type tag and are coerced back to their declared type on read.
type SettingsService struct {
	cfg *config.Config
}

func NewSettingsService(cfg *config.Config) *SettingsService {
	return &SettingsService{cfg: cfg}
}

// GetValue returns the setting coerced per its stored type, or defaultValue
// when the key is missing or the value cannot be parsed.
func (s *SettingsService) GetValue(key string, defaultValue interface{}) interface{} {
	var setting models.SystemSetting
	if err := models.DB.Where("setting_key = ?", key).First(&setting).Error; err != nil {
		return defaultValue
	}
	return coerceValue(setting.SettingValue, setting.SettingType, defaultValue)
}

func coerceValue(value, settingType string, defaultValue interface{}) interface{} {
	switch settingType {
	case models.SettingTypeNumber:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue
		}
		return f
	case models.SettingTypeBoolean:
		return value == "true" || value == "1"
	case models.SettingTypeJSON:
		var parsed interface{}
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			return defaultValue
		}
		return parsed
	default:
		return value
	}
}

// GetInt reads a numeric setting as an integer.
func (s *SettingsService) GetInt(key string, defaultValue int) int {
	v := s.GetValue(key, float64(defaultValue))
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return defaultValue
}

// GetBool reads a boolean setting.
func (s *SettingsService) GetBool(key string, defaultValue bool) bool {
	v := s.GetValue(key, defaultValue)
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultValue
}

// GetString reads a string setting.
func (s *SettingsService) GetString(key string, defaultValue string) string {
	v := s.GetValue(key, defaultValue)
	if str, ok := v.(string); ok {
		return str
	}
	return defaultValue
}

// SetOptions controls how SetValue stores a setting. A zero Type means the
// type is inferred from the native shape of the value.
type SetOptions struct {
	Description string
	Type        string
	IsEditable  *bool
}

// SetValue upserts a setting. The stored type tag is auto-detected from the
// value's native type unless the caller names one explicitly; on update, the
// existing description is preserved when none is supplied.
func (s *SettingsService) SetValue(key string, value interface{}, opts SetOptions) (*models.SystemSetting, error) {
	detectedType := opts.Type
	if detectedType == "" || detectedType == models.SettingTypeString {
		switch value.(type) {
		case int, int64, float64:
			detectedType = models.SettingTypeNumber
		case bool:
			detectedType = models.SettingTypeBoolean
		case string:
			detectedType = models.SettingTypeString
		default:
			detectedType = models.SettingTypeJSON
		}
	}

	var stringValue string
	switch detectedType {
	case models.SettingTypeJSON:
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		stringValue = string(raw)
	default:
		stringValue = fmt.Sprintf("%v", value)
	}

	var setting models.SystemSetting
	err := models.DB.Where("setting_key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		isEditable := true
		if opts.IsEditable != nil {
			isEditable = *opts.IsEditable
		}
		description := opts.Description
		if description == "" {
			description = "系统设置：" + key
		}
		setting = models.SystemSetting{
			SettingKey:   key,
			SettingValue: stringValue,
			SettingType:  detectedType,
			Description:  description,
			IsEditable:   isEditable,
		}
		if err := models.DB.Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	}
	if err != nil {
		return nil, err
	}

	setting.SettingValue = stringValue
	setting.SettingType = detectedType
	if opts.Description != "" {
		setting.Description = opts.Description
	}
	if opts.IsEditable != nil {
		setting.IsEditable = *opts.IsEditable
	}
	if err := models.DB.Save(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// DeleteSetting removes a setting; settings flagged non-editable are
// protected.
func (s *SettingsService) DeleteSetting(key string) error {
	var setting models.SystemSetting
	if err := models.DB.Where("setting_key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSettingNotFound
		}
		return err
	}
	if !setting.IsEditable {
		return ErrSettingNotEditable
	}
	return models.DB.Delete(&setting).Error
}

// GetSetting returns the raw setting row.
func (s *SettingsService) GetSetting(key string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	if err := models.DB.Where("setting_key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// GetAllSettings returns every setting ordered by key.
func (s *SettingsService) GetAllSettings() ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	err := models.DB.Order("setting_key ASC").Find(&settings).Error
	return settings, err
}

type defaultSetting struct {
	value       interface{}
	settingType string
	description string
	isEditable  bool
}

// InitializeDefaults seeds the settings table on first start. Existing keys
// are left untouched.
func (s *SettingsService) InitializeDefaults() error {
	defaults := map[string]defaultSetting{
		"expiry_warning_days":          {7, models.SettingTypeNumber, "到期提醒阈值（天）", true},
		"page_size":                    {20, models.SettingTypeNumber, "每页显示数量", true},
		"auto_refresh_interval":        {60, models.SettingTypeNumber, "自动刷新间隔（秒）", true},
		"max_ads_yellow":               {20, models.SettingTypeNumber, "黄色置顶区最大广告数", true},
		"max_ads_white":                {145, models.SettingTypeNumber, "套白区域最大广告数", true},
		"max_ads_light_yellow":         {53, models.SettingTypeNumber, "套淡黄区域最大广告数", true},
		"max_ads_cyan":                 {67, models.SettingTypeNumber, "套青区域最大广告数", true},
		"system_name":                  {"58信息网广告管理系统", models.SettingTypeString, "系统名称", false},
		"system_version":               {"1.0.0", models.SettingTypeString, "系统版本", false},
		"maintenance_mode":             {false, models.SettingTypeBoolean, "维护模式", true},
		"operation_log_retention_days": {90, models.SettingTypeNumber, "操作日志保留天数", true},
	}

	for key, d := range defaults {
		var count int64
		if err := models.DB.Model(&models.SystemSetting{}).
			Where("setting_key = ?", key).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		editable := d.isEditable
		if _, err := s.SetValue(key, d.value, SetOptions{
			Description: d.description,
			Type:        d.settingType,
			IsEditable:  &editable,
		}); err != nil {
			return err
		}
	}
	return nil
}
