package models

import "time"

const (
	NotificationPeriod        = "period"
	NotificationOvulation     = "ovulation"
	NotificationFertileWindow = "fertile_window"
	NotificationBirthControl  = "birth_control"
)

// ScheduledNotification is one planned delivery. The ID is a pure function of
// (type, subject), so re-scheduling the same subject replaces the row instead
// of duplicating it.
type ScheduledNotification struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Type           string    `gorm:"not null;index" json:"type"`
	Title          string    `gorm:"not null" json:"title"`
	Body           string    `gorm:"not null" json:"body"`
	ScheduledAt    time.Time `gorm:"not null;index" json:"scheduled_at"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	RelatedID      string    `gorm:"not null;default:''" json:"related_id"`
	PlatformHandle string    `gorm:"not null;default:''" json:"platform_handle"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
