package models

import "time"

const (
	ConsistencyDry      = "dry"
	ConsistencySticky   = "sticky"
	ConsistencyCreamy   = "creamy"
	ConsistencyWatery   = "watery"
	ConsistencyEggWhite = "egg-white"
)

const (
	AmountNone     = "none"
	AmountLight    = "light"
	AmountModerate = "moderate"
	AmountHeavy    = "heavy"
)

// CervicalMucusEntry is one mucus observation, at most one per calendar date.
type CervicalMucusEntry struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`
	Consistency string    `gorm:"not null" json:"consistency"`
	Amount      string    `gorm:"not null;default:none" json:"amount"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ValidConsistency(value string) bool {
	switch value {
	case ConsistencyDry, ConsistencySticky, ConsistencyCreamy, ConsistencyWatery, ConsistencyEggWhite:
		return true
	default:
		return false
	}
}

func ValidAmount(value string) bool {
	switch value {
	case AmountNone, AmountLight, AmountModerate, AmountHeavy:
		return true
	default:
		return false
	}
}
