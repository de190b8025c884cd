package models

import "time"

const (
	MinTemperatureCelsius = 35.0
	MaxTemperatureCelsius = 42.0
)

// BBTEntry is one basal body temperature measurement, at most one per calendar date.
type BBTEntry struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	Date               time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`
	TemperatureCelsius float64   `gorm:"not null" json:"temperature_celsius"`
	MeasuredAt         string    `gorm:"not null;default:''" json:"measured_at"`
	Notes              string    `json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
