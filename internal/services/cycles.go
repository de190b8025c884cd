package services

import (
	"sort"
	"time"

	"github.com/ferngrove/mira/internal/models"
)

type Phase string

const (
	PhaseUnknown    Phase = "unknown"
	PhaseMenstrual  Phase = "menstrual"
	PhaseFollicular Phase = "follicular"
	PhaseOvulation  Phase = "ovulation"
	PhaseLuteal     Phase = "luteal"
)

// Phase breakpoints are population heuristics, not derived from the user's own
// average cycle length. Day 0 is the period start date.
const (
	menstrualPhaseLastDay  = 5
	follicularPhaseLastDay = 13
	ovulationPhaseLastDay  = 16
)

const lutealPhaseDays = 14

// maxTrackedCycles bounds how much history feeds the averages, so an old
// irregular stretch stops influencing predictions.
const maxTrackedCycles = 6

type CycleOverview struct {
	CurrentPhase        Phase      `json:"current_phase"`
	CurrentCycleDay     int        `json:"current_cycle_day"`
	AverageCycleLength  int        `json:"average_cycle_length"`
	LastPeriodStart     *time.Time `json:"last_period_start,omitempty"`
	NextPeriodStart     *time.Time `json:"next_period_start,omitempty"`
	DaysUntilNextPeriod *int       `json:"days_until_next_period,omitempty"`
	OvulationDate       *time.Time `json:"ovulation_date,omitempty"`
	FertileWindowStart  *time.Time `json:"fertile_window_start,omitempty"`
	FertileWindowEnd    *time.Time `json:"fertile_window_end,omitempty"`
}

func sortPeriodsByStart(periods []models.PeriodRecord) []models.PeriodRecord {
	sorted := make([]models.PeriodRecord, 0, len(periods))
	sorted = append(sorted, periods...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	return sorted
}

// AverageCycleLength is the mean gap in days between consecutive start dates of
// the most recent periods (at most maxTrackedCycles), rounded to the nearest
// day. With fewer than two periods it falls back to models.DefaultCycleLength.
func AverageCycleLength(periods []models.PeriodRecord) int {
	sorted := sortPeriodsByStart(periods)
	if len(sorted) > maxTrackedCycles {
		sorted = sorted[len(sorted)-maxTrackedCycles:]
	}
	if len(sorted) < 2 {
		return models.DefaultCycleLength
	}

	var total int
	for i := 1; i < len(sorted); i++ {
		total += DaysBetween(sorted[i-1].StartDate, sorted[i].StartDate)
	}
	mean := float64(total) / float64(len(sorted)-1)
	return int(mean + 0.5)
}

// CurrentCyclePhase classifies today against the most recent period started on
// or before today.
func CurrentCyclePhase(periods []models.PeriodRecord, today time.Time) Phase {
	start, ok := lastPeriodStartOnOrBefore(periods, today)
	if !ok {
		return PhaseUnknown
	}

	daysSinceStart := DaysBetween(start, today)
	switch {
	case daysSinceStart <= menstrualPhaseLastDay:
		return PhaseMenstrual
	case daysSinceStart <= follicularPhaseLastDay:
		return PhaseFollicular
	case daysSinceStart <= ovulationPhaseLastDay:
		return PhaseOvulation
	default:
		return PhaseLuteal
	}
}

// PredictNextPeriodStart projects the latest recorded start forward by the
// average cycle length. ok is false with no history.
func PredictNextPeriodStart(periods []models.PeriodRecord) (time.Time, bool) {
	sorted := sortPeriodsByStart(periods)
	if len(sorted) == 0 {
		return time.Time{}, false
	}
	last := dateOnly(sorted[len(sorted)-1].StartDate)
	return last.AddDate(0, 0, AverageCycleLength(periods)), true
}

// DaysUntilNextPeriod may be negative, meaning the predicted start is overdue.
func DaysUntilNextPeriod(periods []models.PeriodRecord, today time.Time) (int, bool) {
	next, ok := PredictNextPeriodStart(periods)
	if !ok {
		return 0, false
	}
	return DaysBetween(today, next), true
}

// PredictOvulationDate places ovulation a fixed luteal phase before the
// predicted next period start.
func PredictOvulationDate(nextPeriodStart time.Time) time.Time {
	return dateOnly(nextPeriodStart).AddDate(0, 0, -lutealPhaseDays)
}

// FertileWindow spans the five days before predicted ovulation through the day
// after it.
func FertileWindow(ovulationDate time.Time) (time.Time, time.Time) {
	day := dateOnly(ovulationDate)
	return day.AddDate(0, 0, -5), day.AddDate(0, 0, 1)
}

func BuildCycleOverview(periods []models.PeriodRecord, today time.Time) CycleOverview {
	overview := CycleOverview{
		CurrentPhase:       CurrentCyclePhase(periods, today),
		AverageCycleLength: AverageCycleLength(periods),
	}

	start, ok := lastPeriodStartOnOrBefore(periods, today)
	if ok {
		overview.LastPeriodStart = &start
		overview.CurrentCycleDay = DaysBetween(start, today) + 1
	}

	next, ok := PredictNextPeriodStart(periods)
	if !ok {
		return overview
	}

	overview.NextPeriodStart = &next
	daysUntil := DaysBetween(today, next)
	overview.DaysUntilNextPeriod = &daysUntil

	ovulation := PredictOvulationDate(next)
	windowStart, windowEnd := FertileWindow(ovulation)
	overview.OvulationDate = &ovulation
	overview.FertileWindowStart = &windowStart
	overview.FertileWindowEnd = &windowEnd
	return overview
}

func lastPeriodStartOnOrBefore(periods []models.PeriodRecord, today time.Time) (time.Time, bool) {
	day := dateOnly(today)
	var found bool
	var latest time.Time
	for _, period := range periods {
		start := dateOnly(period.StartDate)
		if start.After(day) {
			continue
		}
		if !found || start.After(latest) {
			latest = start
			found = true
		}
	}
	return latest, found
}
