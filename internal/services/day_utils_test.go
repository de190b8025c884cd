package services

import (
	"errors"
	"testing"
	"time"
)

func mustParseDay(t *testing.T, value string) time.Time {
	t.Helper()

	day, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		t.Fatalf("parse day %q failed: %v", value, err)
	}
	return day
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "same day", a: "2024-03-02", b: "2024-03-02", want: 0},
		{name: "forward", a: "2024-01-01", b: "2024-01-29", want: 28},
		{name: "backward", a: "2024-03-25", b: "2024-03-02", want: -23},
		{name: "across leap day", a: "2024-02-26", b: "2024-03-25", want: 28},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			got := DaysBetween(mustParseDay(t, testCase.a), mustParseDay(t, testCase.b))
			if got != testCase.want {
				t.Fatalf("expected %d days, got %d", testCase.want, got)
			}
		})
	}
}

func TestDaysBetweenAcrossDSTTransition(t *testing.T) {
	t.Parallel()

	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// Spring forward 2024-03-10: the span 03-09 to 03-10 is only 23 hours,
	// and fall back 2024-11-03 makes 11-02 to 11-03 a 25 hour span.
	cases := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{
			name: "spring forward",
			a:    time.Date(2024, 3, 9, 0, 0, 0, 0, location),
			b:    time.Date(2024, 3, 10, 0, 0, 0, 0, location),
			want: 1,
		},
		{
			name: "week across spring forward",
			a:    time.Date(2024, 3, 8, 0, 0, 0, 0, location),
			b:    time.Date(2024, 3, 15, 0, 0, 0, 0, location),
			want: 7,
		},
		{
			name: "fall back",
			a:    time.Date(2024, 11, 2, 0, 0, 0, 0, location),
			b:    time.Date(2024, 11, 3, 0, 0, 0, 0, location),
			want: 1,
		},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			if got := DaysBetween(testCase.a, testCase.b); got != testCase.want {
				t.Fatalf("expected %d days, got %d", testCase.want, got)
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		value      string
		wantHour   int
		wantMinute int
		wantErr    bool
	}{
		{name: "morning", value: "09:00", wantHour: 9},
		{name: "evening", value: "21:45", wantHour: 21, wantMinute: 45},
		{name: "midnight", value: "00:00"},
		{name: "hour out of range", value: "24:00", wantErr: true},
		{name: "minute out of range", value: "10:60", wantErr: true},
		{name: "missing colon", value: "0900", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			hour, minute, err := ParseTimeOfDay(testCase.value)
			if testCase.wantErr {
				if !errors.Is(err, ErrInvalidTimeOfDay) {
					t.Fatalf("expected ErrInvalidTimeOfDay, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if hour != testCase.wantHour || minute != testCase.wantMinute {
				t.Fatalf("expected %02d:%02d, got %02d:%02d", testCase.wantHour, testCase.wantMinute, hour, minute)
			}
		})
	}
}

func TestCombineDateTime(t *testing.T) {
	t.Parallel()

	day := mustParseDay(t, "2024-03-02")
	combined, err := CombineDateTime(day, "08:30", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC)
	if !combined.Equal(want) {
		t.Fatalf("expected %s, got %s", want, combined)
	}
}

func TestDayRange(t *testing.T) {
	t.Parallel()

	start, end := DayRange(time.Date(2024, 3, 2, 15, 4, 5, 0, time.UTC), time.UTC)
	if got := start.Format("2006-01-02 15:04"); got != "2024-03-02 00:00" {
		t.Fatalf("expected day start 2024-03-02 00:00, got %s", got)
	}
	if got := end.Format("2006-01-02 15:04"); got != "2024-03-03 00:00" {
		t.Fatalf("expected day end 2024-03-03 00:00, got %s", got)
	}
}
