package services

import (
	"fmt"
	"time"

	"ad-panel/internal/config"
	"ad-panel/internal/models"
)

// OperationLogService writes and queries the audit trail. Entries are never
// updated after creation.
type OperationLogService struct {
	cfg *config.Config
}

func NewOperationLogService(cfg *config.Config) *OperationLogService {
	return &OperationLogService{cfg: cfg}
}

// LogEntry is the input for a single audit record.
type LogEntry struct {
	UserName        string
	OperationType   string
	OperationDetail string
	IPAddress       string
	UserAgent       string
	Status          string
	ErrorMessage    string
}

func (s *OperationLogService) LogOperation(entry LogEntry) error {
	if entry.Status == "" {
		entry.Status = models.OpStatusSuccess
	}
	log := &models.OperationLog{
		UserName:        entry.UserName,
		OperationType:   entry.OperationType,
		OperationDetail: entry.OperationDetail,
		IPAddress:       entry.IPAddress,
		UserAgent:       entry.UserAgent,
		Status:          entry.Status,
		ErrorMessage:    entry.ErrorMessage,
	}
	return models.DB.Create(log).Error
}

func (s *OperationLogService) LogLogin(userName, ipAddress, userAgent, status, errorMessage string) error {
	return s.LogOperation(LogEntry{
		UserName:        userName,
		OperationType:   models.OpLogin,
		OperationDetail: fmt.Sprintf("用户 %s 登录系统", userName),
		IPAddress:       ipAddress,
		UserAgent:       userAgent,
		Status:          status,
		ErrorMessage:    errorMessage,
	})
}

func (s *OperationLogService) LogLogout(userName, ipAddress, userAgent string) error {
	return s.LogOperation(LogEntry{
		UserName:        userName,
		OperationType:   models.OpLogout,
		OperationDetail: fmt.Sprintf("用户 %s 登出系统", userName),
		IPAddress:       ipAddress,
		UserAgent:       userAgent,
	})
}

var adOperationDetail = map[string]string{
	models.OpAdd:          "用户 %s 添加广告：%s",
	models.OpEdit:         "用户 %s 编辑广告：%s",
	models.OpDelete:       "用户 %s 删除广告：%s",
	models.OpRenew:        "用户 %s 续费广告：%s",
	models.OpStatusChange: "用户 %s 更改广告状态：%s",
}

// LogAdOperation records an ad mutation against the audit trail.
func (s *OperationLogService) LogAdOperation(userName, operationType, adTitle, ipAddress, userAgent string) error {
	format, ok := adOperationDetail[operationType]
	detail := ""
	if ok {
		detail = fmt.Sprintf(format, userName, adTitle)
	} else {
		detail = fmt.Sprintf("用户 %s 对广告 %s 执行 %s 操作", userName, adTitle, operationType)
	}
	return s.LogOperation(LogEntry{
		UserName:        userName,
		OperationType:   operationType,
		OperationDetail: detail,
		IPAddress:       ipAddress,
		UserAgent:       userAgent,
	})
}

// LogSearchParams filters the audit trail.
type LogSearchParams struct {
	UserName      string
	OperationType string
	Status        string
	IPAddress     string
	StartDate     *time.Time
	EndDate       *time.Time
	Limit         int
}

// SearchLogs returns matching audit entries, newest first.
func (s *OperationLogService) SearchLogs(params LogSearchParams) ([]models.OperationLog, error) {
	query := models.DB.Model(&models.OperationLog{})

	if params.UserName != "" {
		query = query.Where("user_name LIKE ?", "%"+params.UserName+"%")
	}
	if params.OperationType != "" {
		query = query.Where("operation_type = ?", params.OperationType)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.IPAddress != "" {
		query = query.Where("ip_address LIKE ?", "%"+params.IPAddress+"%")
	}
	if params.StartDate != nil && params.EndDate != nil {
		query = query.Where("created_at BETWEEN ? AND ?", *params.StartDate, *params.EndDate)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	var logs []models.OperationLog
	err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// OperationTypeStat aggregates outcomes per operation type.
type OperationTypeStat struct {
	OperationType string `json:"operation_type"`
	Count         int    `json:"count"`
	SuccessCount  int    `json:"success_count"`
	FailedCount   int    `json:"failed_count"`
}

// OperationTypeStats counts entries per type, optionally within a date range.
func (s *OperationLogService) OperationTypeStats(startDate, endDate *time.Time) ([]OperationTypeStat, error) {
	query := models.DB.Model(&models.OperationLog{})
	if startDate != nil && endDate != nil {
		query = query.Where("created_at BETWEEN ? AND ?", *startDate, *endDate)
	}

	var stats []OperationTypeStat
	err := query.
		Select("operation_type, COUNT(id) AS count, " +
			"SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END) AS success_count, " +
			"SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END) AS failed_count").
		Group("operation_type").
		Order("count DESC").
		Scan(&stats).Error
	return stats, err
}

// CleanOldLogs prunes entries older than daysToKeep and returns how many
// rows were removed.
func (s *OperationLogService) CleanOldLogs(daysToKeep int) (int64, error) {
	if daysToKeep <= 0 {
		daysToKeep = 90
	}
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)
	result := models.DB.Where("created_at < ?", cutoff).Delete(&models.OperationLog{})
	return result.RowsAffected, result.Error
}
