package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// DaysBetween returns the number of calendar days from a to b (negative when b
// precedes a). Both arguments are truncated to their calendar date first.
// Rounding absorbs the 23h and 25h midnight-to-midnight spans around DST
// transitions in non-UTC locations.
func DaysBetween(a, b time.Time) int {
	dayA := dateOnly(a)
	dayB := dateOnly(b.In(a.Location()))
	return int(math.Round(dayB.Sub(dayA).Hours() / 24))
}

// ParseTimeOfDay parses a wall-clock "HH:MM" string.
func ParseTimeOfDay(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	return hour, minute, nil
}

// CombineDateTime places a wall-clock "HH:MM" on the calendar date of day.
func CombineDateTime(day time.Time, timeOfDay string, location *time.Location) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	if location == nil {
		location = time.UTC
	}
	year, month, date := day.In(location).Date()
	return time.Date(year, month, date, hour, minute, 0, 0, location), nil
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
