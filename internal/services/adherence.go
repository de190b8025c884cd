package services

import (
	"errors"
	"sort"
	"time"

	"github.com/ferngrove/mira/internal/models"
	"github.com/google/uuid"
)

var ErrAdherenceWindowInvalid = errors.New("adherence window must be positive")

const (
	RatingExcellent        = "excellent"
	RatingGood             = "good"
	RatingFair             = "fair"
	RatingNeedsImprovement = "needs improvement"
)

type AdherenceStats struct {
	ReminderID    string                     `json:"reminder_id"`
	WindowDays    int                        `json:"window_days"`
	TotalCount    int                        `json:"total_count"`
	TakenCount    int                        `json:"taken_count"`
	MissedCount   int                        `json:"missed_count"`
	AdherenceRate int                        `json:"adherence_rate"`
	Rating        string                     `json:"rating"`
	Logs          []models.AdherenceLogEntry `json:"logs"`
}

// BuildAdherenceStats summarizes the trailing windowDays calendar days ending
// today, inclusive. Every day in the window counts toward the denominator
// whether or not it was logged, so the rate reflects expected occurrences,
// not logged ones.
func BuildAdherenceStats(reminderID string, logs []models.AdherenceLogEntry, windowDays int, today time.Time) (AdherenceStats, error) {
	if windowDays <= 0 {
		return AdherenceStats{}, ErrAdherenceWindowInvalid
	}

	windowEnd := dateOnly(today)
	windowStart := windowEnd.AddDate(0, 0, -windowDays+1)

	windowed := make([]models.AdherenceLogEntry, 0, len(logs))
	takenCount := 0
	missedCount := 0
	for _, entry := range logs {
		if entry.ReminderID != reminderID {
			continue
		}
		day := dateOnly(entry.Date)
		if day.Before(windowStart) || day.After(windowEnd) {
			continue
		}
		windowed = append(windowed, entry)
		if entry.Taken {
			takenCount++
		} else {
			missedCount++
		}
	}

	sort.Slice(windowed, func(i, j int) bool {
		return windowed[i].Date.After(windowed[j].Date)
	})

	rate := int(float64(takenCount)/float64(windowDays)*100 + 0.5)
	if rate < 0 {
		rate = 0
	}
	if rate > 100 {
		rate = 100
	}

	return AdherenceStats{
		ReminderID:    reminderID,
		WindowDays:    windowDays,
		TotalCount:    windowDays,
		TakenCount:    takenCount,
		MissedCount:   missedCount,
		AdherenceRate: rate,
		Rating:        AdherenceRating(rate),
		Logs:          windowed,
	}, nil
}

// AdherenceRating buckets a rate for UI color-coding.
func AdherenceRating(rate int) string {
	switch {
	case rate >= 90:
		return RatingExcellent
	case rate >= 70:
		return RatingGood
	case rate >= 50:
		return RatingFair
	default:
		return RatingNeedsImprovement
	}
}

type AdherenceLogRepository interface {
	ListByReminder(reminderID string) ([]models.AdherenceLogEntry, error)
	FindByReminderAndDayRange(reminderID string, dayStart time.Time, dayEnd time.Time) (models.AdherenceLogEntry, bool, error)
	Create(entry *models.AdherenceLogEntry) error
	Save(entry *models.AdherenceLogEntry) error
	DeleteByReminder(reminderID string) error
}

type AdherenceService struct {
	logs     AdherenceLogRepository
	location *time.Location
}

func NewAdherenceService(logs AdherenceLogRepository, location *time.Location) *AdherenceService {
	if location == nil {
		location = time.UTC
	}
	return &AdherenceService{logs: logs, location: location}
}

// LogAdherence upserts the single entry for (reminderID, date). Logging the
// same day twice overwrites the earlier decision.
func (service *AdherenceService) LogAdherence(reminderID string, date time.Time, taken bool, takenAt *time.Time, notes string) (models.AdherenceLogEntry, error) {
	dayStart, dayEnd := DayRange(date, service.location)

	existing, found, err := service.logs.FindByReminderAndDayRange(reminderID, dayStart, dayEnd)
	if err != nil {
		return models.AdherenceLogEntry{}, err
	}

	if found {
		existing.Taken = taken
		existing.TakenAt = takenAt
		existing.Notes = notes
		if err := service.logs.Save(&existing); err != nil {
			return models.AdherenceLogEntry{}, err
		}
		return existing, nil
	}

	entry := models.AdherenceLogEntry{
		ID:         uuid.NewString(),
		ReminderID: reminderID,
		Date:       dayStart,
		Taken:      taken,
		TakenAt:    takenAt,
		Notes:      notes,
	}
	if err := service.logs.Create(&entry); err != nil {
		return models.AdherenceLogEntry{}, err
	}
	return entry, nil
}

func (service *AdherenceService) Stats(reminderID string, windowDays int, today time.Time) (AdherenceStats, error) {
	logs, err := service.logs.ListByReminder(reminderID)
	if err != nil {
		return AdherenceStats{}, err
	}
	return BuildAdherenceStats(reminderID, logs, windowDays, DateAtLocation(today, service.location))
}
