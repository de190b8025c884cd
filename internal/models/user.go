package models

import "time"

const (
	// AdherenceRetain keeps adherence history when a reminder is deleted.
	AdherenceRetain = "retain"
	// AdherencePurge removes adherence history together with the reminder.
	AdherencePurge = "purge"
)

const DefaultNotifyTime = "09:00"

type User struct {
	ID                     uint      `gorm:"primaryKey"`
	Email                  string    `gorm:"uniqueIndex;not null"`
	PasswordHash           string    `gorm:"not null"`
	RecoveryCodeHash       string    `gorm:"not null;default:''"`
	PeriodRemindersEnabled bool      `gorm:"not null;default:true"`
	NotifyTime             string    `gorm:"not null;default:09:00"`
	AdherenceRetention     string    `gorm:"not null;default:retain"`
	CreatedAt              time.Time `gorm:"not null"`
}

func ValidAdherenceRetention(value string) bool {
	return value == AdherenceRetain || value == AdherencePurge
}
