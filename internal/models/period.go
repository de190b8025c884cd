package models

import "time"

const DefaultCycleLength = 28

type PeriodRecord struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	StartDate time.Time  `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// EffectiveEnd treats an ongoing period as a single-day range for overlap checks.
func (record PeriodRecord) EffectiveEnd() time.Time {
	if record.EndDate != nil {
		return *record.EndDate
	}
	return record.StartDate
}
