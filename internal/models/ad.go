package models

import (
	"time"
)

// Display regions, in the fixed order the public page renders them.
const (
	RegionYellow      = "yellow"
	RegionWhite       = "white"
	RegionLightYellow = "lightYellow"
	RegionCyan        = "cyan"
)

// RegionOther collects ads whose region value is not one of the four
// known buckets; statistics pass these through instead of failing.
const RegionOther = "other"

const (
	AdStatusActive   = "active"
	AdStatusInactive = "inactive"
)

// Regions returns the four known regions in render order.
func Regions() []string {
	return []string{RegionYellow, RegionWhite, RegionLightYellow, RegionCyan}
}

// IsValidRegion reports whether region is one of the four known buckets.
func IsValidRegion(region string) bool {
	switch region {
	case RegionYellow, RegionWhite, RegionLightYellow, RegionCyan:
		return true
	}
	return false
}

// Ad is a game-server advertisement displayed on the public listing page.
type Ad struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"type:varchar(200);not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	Link       string    `json:"link" gorm:"type:varchar(500);not null"`
	Region     string    `json:"region" gorm:"type:varchar(20);not null;index:idx_region;index:idx_region_status"`
	StartDate  time.Time `json:"start_date" gorm:"not null;index:idx_date_range"`
	EndDate    time.Time `json:"end_date" gorm:"not null;index:idx_date_range;index:idx_end_date"`
	Experience string    `json:"experience" gorm:"type:varchar(100)"`
	Version    string    `json:"version" gorm:"type:varchar(100)"`
	SortWeight int       `json:"sort_weight" gorm:"not null;default:0"`
	Status     string    `json:"status" gorm:"type:varchar(20);not null;default:'active';index:idx_status;index:idx_region_status"`
	CreateUser string    `json:"create_user" gorm:"type:varchar(100)"`
	UpdateUser string    `json:"update_user" gorm:"type:varchar(100)"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Ad) TableName() string {
	return "ads"
}

// IsExpired reports whether the ad's validity window has ended at now.
func (a *Ad) IsExpired(now time.Time) bool {
	return !a.EndDate.After(now)
}

// RemainingDays returns the whole days left until expiry, rounded up and
// floored at zero.
func (a *Ad) RemainingDays(now time.Time) int {
	diff := a.EndDate.Sub(now)
	if diff <= 0 {
		return 0
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}
