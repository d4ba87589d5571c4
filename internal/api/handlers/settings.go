package handlers

import (
	"ad-panel/internal/config"
	"ad-panel/internal/services"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{
		settings: services.NewSettingsService(cfg),
	}
}

// ListSettings returns all settings with their typed values
func (h *SettingsHandler) ListSettings(c *gin.Context) {
	settings, err := h.settings.GetAllSettings()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]gin.H, 0, len(settings))
	for _, s := range settings {
		out = append(out, gin.H{
			"setting_key":   s.SettingKey,
			"setting_value": h.settings.GetValue(s.SettingKey, nil),
			"setting_type":  s.SettingType,
			"description":   s.Description,
			"is_editable":   s.IsEditable,
			"updated_at":    s.UpdatedAt,
		})
	}
	respondOK(c, out)
}

// GetSetting returns one setting with its typed value
func (h *SettingsHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	setting, err := h.settings.GetSetting(key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"setting_key":   setting.SettingKey,
		"setting_value": h.settings.GetValue(key, nil),
		"setting_type":  setting.SettingType,
		"description":   setting.Description,
		"is_editable":   setting.IsEditable,
		"updated_at":    setting.UpdatedAt,
	})
}

type UpdateSettingRequest struct {
	Value       interface{} `json:"value" binding:"required"`
	Type        string      `json:"type" binding:"omitempty,oneof=string number boolean json"`
	Description string      `json:"description" binding:"max=500"`
}

// UpdateSetting upserts a setting. Non-editable keys are rejected.
func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")

	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if existing, err := h.settings.GetSetting(key); err == nil && !existing.IsEditable {
		respondServiceError(c, services.ErrSettingNotEditable)
		return
	}

	setting, err := h.settings.SetValue(key, req.Value, services.SetOptions{
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "Setting updated successfully", setting)
}

// DeleteSetting removes an editable setting
func (h *SettingsHandler) DeleteSetting(c *gin.Context) {
	key := c.Param("key")
	if err := h.settings.DeleteSetting(key); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "Setting deleted successfully", gin.H{"key": key})
}
