package models

import "time"

const (
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
)

type ReminderDefinition struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Method     string    `gorm:"not null" json:"method"`
	Frequency  string    `gorm:"not null;default:daily" json:"frequency"`
	TimeOfDay  string    `gorm:"not null" json:"time_of_day"`
	CustomName string    `json:"custom_name"`
	Notes      string    `json:"notes"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AdherenceLogEntry records one taken/missed decision per reminder per calendar date.
type AdherenceLogEntry struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	ReminderID string     `gorm:"type:uuid;not null;uniqueIndex:uidx_reminder_date" json:"reminder_id"`
	Date       time.Time  `gorm:"type:date;not null;uniqueIndex:uidx_reminder_date" json:"date"`
	Taken      bool       `gorm:"not null;default:false" json:"taken"`
	TakenAt    *time.Time `json:"taken_at,omitempty"`
	Notes      string     `json:"notes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func ValidFrequency(value string) bool {
	switch value {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	default:
		return false
	}
}
