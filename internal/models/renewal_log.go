package models

import (
	"time"
)

// RenewalLog records a single extension of an ad's end date. Entries are
// append-only and never updated in place.
type RenewalLog struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	AdID          uint      `json:"ad_id" gorm:"not null;index:idx_ad_id"`
	Ad            *Ad       `json:"ad,omitempty" gorm:"foreignKey:AdID"`
	OldEndDate    time.Time `json:"old_end_date" gorm:"not null"`
	NewEndDate    time.Time `json:"new_end_date" gorm:"not null"`
	RenewalDays   int       `json:"renewal_days" gorm:"not null"`
	RenewalWeeks  int       `json:"renewal_weeks" gorm:"not null;default:0"`
	RenewalMonths int       `json:"renewal_months" gorm:"not null;default:0"`
	RenewalAmount *float64  `json:"renewal_amount" gorm:"type:decimal(10,2)"`
	RenewalUser   string    `json:"renewal_user" gorm:"type:varchar(100);not null;index:idx_renewal_user"`
	Remark        string    `json:"remark" gorm:"type:varchar(500)"`
	CreatedAt     time.Time `json:"created_at" gorm:"index:idx_renewal_time"`
}

func (RenewalLog) TableName() string {
	return "renewal_logs"
}
