package models

import (
	"time"
)

// Setting value type tags. Values are always stored as text and coerced to
// the declared type on read.
const (
	SettingTypeString  = "string"
	SettingTypeNumber  = "number"
	SettingTypeBoolean = "boolean"
	SettingTypeJSON    = "json"
)

// SystemSetting is a typed key/value configuration row.
type SystemSetting struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SettingKey   string    `json:"setting_key" gorm:"type:varchar(100);uniqueIndex:uk_setting_key;not null"`
	SettingValue string    `json:"setting_value" gorm:"type:text;not null"`
	SettingType  string    `json:"setting_type" gorm:"type:varchar(20);not null;default:'string'"`
	Description  string    `json:"description" gorm:"type:varchar(500)"`
	// No default tag: gorm would skip an explicit false on insert and
	// let the column default win. SetValue always writes the value.
	IsEditable   bool      `json:"is_editable" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
