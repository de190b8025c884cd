package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ferngrove/mira/internal/models"
)

var (
	ErrPeriodRangeInvalid    = errors.New("period end date precedes start date")
	ErrPeriodOverlap         = errors.New("period overlaps an existing record")
	ErrTemperatureOutOfRange = errors.New("temperature out of range")
	ErrUnknownConsistency    = errors.New("unknown mucus consistency")
	ErrUnknownAmount         = errors.New("unknown mucus amount")
	ErrUnknownFrequency      = errors.New("unknown reminder frequency")
)

// ValidatePeriodRange rejects an end date before the start date. An absent end
// date means the period is still ongoing.
func ValidatePeriodRange(startDate time.Time, endDate *time.Time) error {
	if endDate != nil && dateOnly(*endDate).Before(dateOnly(startDate)) {
		return ErrPeriodRangeInvalid
	}
	return nil
}

// CheckPeriodOverlap compares a candidate against all existing records except
// the one being edited. Ranges sharing a day count as overlapping.
func CheckPeriodOverlap(existing []models.PeriodRecord, candidate models.PeriodRecord) error {
	candidateStart := dateOnly(candidate.StartDate)
	candidateEnd := dateOnly(candidate.EffectiveEnd())

	for _, record := range existing {
		if record.ID == candidate.ID {
			continue
		}
		recordStart := dateOnly(record.StartDate)
		recordEnd := dateOnly(record.EffectiveEnd())
		if !candidateStart.After(recordEnd) && !recordStart.After(candidateEnd) {
			return fmt.Errorf("%w: %s", ErrPeriodOverlap, recordStart.Format("2006-01-02"))
		}
	}
	return nil
}

func ValidateTemperature(celsius float64) error {
	if celsius < models.MinTemperatureCelsius || celsius > models.MaxTemperatureCelsius {
		return fmt.Errorf("%w: %.2f", ErrTemperatureOutOfRange, celsius)
	}
	return nil
}

func ValidateMucusEntry(consistency string, amount string) error {
	if !models.ValidConsistency(consistency) {
		return fmt.Errorf("%w: %q", ErrUnknownConsistency, consistency)
	}
	if !models.ValidAmount(amount) {
		return fmt.Errorf("%w: %q", ErrUnknownAmount, amount)
	}
	return nil
}

func ValidateReminderInput(frequency string, timeOfDay string) error {
	if !models.ValidFrequency(frequency) {
		return fmt.Errorf("%w: %q", ErrUnknownFrequency, frequency)
	}
	if _, _, err := ParseTimeOfDay(timeOfDay); err != nil {
		return err
	}
	return nil
}
