package services

import (
	"testing"
	"time"

	"ad-panel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAdOperation(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewOperationLogService(cfg)

	require.NoError(t, svc.LogAdOperation("admin", models.OpAdd, "经典一区", "10.0.0.1", "test-agent"))
	require.NoError(t, svc.LogAdOperation("admin", models.OpRenew, "经典一区", "10.0.0.1", "test-agent"))

	logs, err := svc.SearchLogs(LogSearchParams{UserName: "admin"})
	require.NoError(t, err)
	require.Len(t, logs, 2)

	details := []string{logs[0].OperationDetail, logs[1].OperationDetail}
	assert.Contains(t, details, "用户 admin 添加广告：经典一区")
	assert.Contains(t, details, "用户 admin 续费广告：经典一区")
	assert.Equal(t, models.OpStatusSuccess, logs[0].Status)
}

func TestSearchLogsFilters(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewOperationLogService(cfg)

	require.NoError(t, svc.LogLogin("admin", "10.0.0.1", "agent", models.OpStatusSuccess, ""))
	require.NoError(t, svc.LogLogin("intruder", "10.9.9.9", "agent", models.OpStatusFailed, "bad password"))
	require.NoError(t, svc.LogLogout("admin", "10.0.0.1", "agent"))

	logs, err := svc.SearchLogs(LogSearchParams{OperationType: models.OpLogin})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = svc.SearchLogs(LogSearchParams{Status: models.OpStatusFailed})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "intruder", logs[0].UserName)
	assert.Equal(t, "bad password", logs[0].ErrorMessage)

	logs, err = svc.SearchLogs(LogSearchParams{UserName: "adm"})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestOperationTypeStats(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewOperationLogService(cfg)

	require.NoError(t, svc.LogLogin("admin", "10.0.0.1", "agent", models.OpStatusSuccess, ""))
	require.NoError(t, svc.LogLogin("admin", "10.0.0.1", "agent", models.OpStatusFailed, "typo"))
	require.NoError(t, svc.LogAdOperation("admin", models.OpAdd, "广告", "10.0.0.1", "agent"))

	stats, err := svc.OperationTypeStats(nil, nil)
	require.NoError(t, err)

	byType := make(map[string]OperationTypeStat, len(stats))
	for _, s := range stats {
		byType[s.OperationType] = s
	}

	login := byType[models.OpLogin]
	assert.Equal(t, 2, login.Count)
	assert.Equal(t, 1, login.SuccessCount)
	assert.Equal(t, 1, login.FailedCount)
	assert.Equal(t, 1, byType[models.OpAdd].Count)
}

func TestCleanOldLogs(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewOperationLogService(cfg)

	require.NoError(t, svc.LogLogout("admin", "10.0.0.1", "agent"))

	old := &models.OperationLog{
		UserName:        "admin",
		OperationType:   models.OpLogin,
		OperationDetail: "用户 admin 登录系统",
		Status:          models.OpStatusSuccess,
	}
	require.NoError(t, models.DB.Create(old).Error)
	models.DB.Model(old).Update("created_at", time.Now().AddDate(0, 0, -120))

	removed, err := svc.CleanOldLogs(90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var count int64
	models.DB.Model(&models.OperationLog{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
