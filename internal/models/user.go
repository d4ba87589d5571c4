package models

import (
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusLocked   = "locked"
)

type User struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Username      string     `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash  string     `json:"-" gorm:"type:varchar(255);not null"`
	Email         string     `json:"email" gorm:"type:varchar(200)"`
	RealName      string     `json:"real_name" gorm:"type:varchar(100)"`
	Role          string     `json:"role" gorm:"type:varchar(20);not null;default:'operator';index:idx_role"`
	Status        string     `json:"status" gorm:"type:varchar(20);not null;default:'active';index:idx_user_status"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip" gorm:"type:varchar(45)"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// roleRank orders roles for permission checks; higher covers lower.
var roleRank = map[string]int{
	RoleAdmin:    3,
	RoleOperator: 2,
	RoleViewer:   1,
}

// HasPermission reports whether userRole is at least requiredRole.
func HasPermission(userRole, requiredRole string) bool {
	return roleRank[userRole] >= roleRank[requiredRole]
}

type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"token" gorm:"type:varchar(500);uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Session) TableName() string {
	return "sessions"
}

// PasswordReset is a single-use token for the forgot/reset password flow.
type PasswordReset struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"token" gorm:"type:varchar(100);uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
