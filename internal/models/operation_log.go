package models

import (
	"time"
)

const (
	OpStatusSuccess = "success"
	OpStatusFailed  = "failed"
)

// Operation type tags written by the handlers.
const (
	OpLogin        = "login"
	OpLogout       = "logout"
	OpAdd          = "add"
	OpEdit         = "edit"
	OpDelete       = "delete"
	OpRenew        = "renew"
	OpStatusChange = "status_change"
)

// OperationLog is the append-only audit trail of user actions. UserName
// references users by name, not by id.
type OperationLog struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserName        string    `json:"user_name" gorm:"type:varchar(100);not null;index:idx_user_name"`
	OperationType   string    `json:"operation_type" gorm:"type:varchar(50);not null;index:idx_operation_type"`
	OperationDetail string    `json:"operation_detail" gorm:"type:text;not null"`
	IPAddress       string    `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent       string    `json:"user_agent" gorm:"type:varchar(500)"`
	Status          string    `json:"status" gorm:"type:varchar(20);not null;default:'success';index:idx_op_status"`
	ErrorMessage    string    `json:"error_message" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at" gorm:"index:idx_operation_time"`
}

func (OperationLog) TableName() string {
	return "operation_logs"
}
