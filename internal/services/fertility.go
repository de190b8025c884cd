package services

import (
	"sort"
	"time"

	"github.com/ferngrove/mira/internal/models"
)

type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

type OvulationVerdict string

const (
	VerdictInsufficientData            OvulationVerdict = "insufficient_data"
	VerdictOvulationLikelyPast1to3Days OvulationVerdict = "ovulation_likely_past_1_to_3_days"
	VerdictApproachingFertileWindow    OvulationVerdict = "approaching_ovulation_fertile_window"
	VerdictPostOvulation               OvulationVerdict = "post_ovulation"
)

// A post-ovulation BBT rise is read as any measurement sitting this far above
// the average of the three measurements before it.
const temperatureShiftCelsius = 0.2

const (
	trendWindowSize    = 7
	minEntriesForShift = 4
	minBBTForVerdict   = 7
	minMucusForVerdict = 3
	fertileMucusWindow = 5
)

type FertilitySnapshot struct {
	Trend           Trend            `json:"temperature_trend"`
	TodayScore      int              `json:"fertility_score_today"`
	Verdict         OvulationVerdict `json:"ovulation_verdict"`
	BBTEntryCount   int              `json:"bbt_entry_count"`
	MucusEntryCount int              `json:"mucus_entry_count"`
}

func sortBBTByDate(entries []models.BBTEntry) []models.BBTEntry {
	sorted := make([]models.BBTEntry, 0, len(entries))
	sorted = append(sorted, entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

func sortMucusByDate(entries []models.CervicalMucusEntry) []models.CervicalMucusEntry {
	sorted := make([]models.CervicalMucusEntry, 0, len(entries))
	sorted = append(sorted, entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// TemperatureTrend inspects the most recent measurements (at most
// trendWindowSize). A measurement more than temperatureShiftCelsius above the
// average of the three before it marks the trend rising. With no such shift,
// a latest measurement below the window average marks it falling. Fewer than
// minEntriesForShift measurements always read stable.
func TemperatureTrend(entries []models.BBTEntry) Trend {
	window := sortBBTByDate(entries)
	if len(window) > trendWindowSize {
		window = window[len(window)-trendWindowSize:]
	}
	if len(window) < minEntriesForShift {
		return TrendStable
	}

	for i := 3; i < len(window); i++ {
		preceding := (window[i-3].TemperatureCelsius + window[i-2].TemperatureCelsius + window[i-1].TemperatureCelsius) / 3
		if window[i].TemperatureCelsius > preceding+temperatureShiftCelsius {
			return TrendRising
		}
	}

	var total float64
	for _, entry := range window {
		total += entry.TemperatureCelsius
	}
	windowAverage := total / float64(len(window))
	if window[len(window)-1].TemperatureCelsius < windowAverage {
		return TrendFalling
	}
	return TrendStable
}

// FertilityScore maps a mucus consistency to a 0-100 score for a single entry.
func FertilityScore(consistency string) int {
	switch consistency {
	case models.ConsistencyEggWhite:
		return 100
	case models.ConsistencyWatery:
		return 80
	case models.ConsistencyCreamy:
		return 60
	case models.ConsistencySticky:
		return 40
	case models.ConsistencyDry:
		return 20
	default:
		return 0
	}
}

// FertilityScoreForDate scores the entry logged on the given date, or 0 when
// none exists.
func FertilityScoreForDate(entries []models.CervicalMucusEntry, day time.Time) int {
	for _, entry := range entries {
		if sameDay(entry.Date, day) {
			return FertilityScore(entry.Consistency)
		}
	}
	return 0
}

// PredictOvulation combines the BBT trend with recent mucus quality. It never
// fails: thin history reads as VerdictInsufficientData.
func PredictOvulation(bbtEntries []models.BBTEntry, mucusEntries []models.CervicalMucusEntry) OvulationVerdict {
	if len(bbtEntries) < minBBTForVerdict || len(mucusEntries) < minMucusForVerdict {
		return VerdictInsufficientData
	}

	tempShift := TemperatureTrend(bbtEntries) == TrendRising
	hasFertileMucus := anyFertileMucus(mucusEntries)

	switch {
	case tempShift && hasFertileMucus:
		return VerdictOvulationLikelyPast1to3Days
	case hasFertileMucus:
		return VerdictApproachingFertileWindow
	case tempShift:
		return VerdictPostOvulation
	default:
		return VerdictInsufficientData
	}
}

func anyFertileMucus(entries []models.CervicalMucusEntry) bool {
	recent := sortMucusByDate(entries)
	if len(recent) > fertileMucusWindow {
		recent = recent[len(recent)-fertileMucusWindow:]
	}
	for _, entry := range recent {
		if entry.Consistency == models.ConsistencyEggWhite || entry.Consistency == models.ConsistencyWatery {
			return true
		}
	}
	return false
}

func BuildFertilitySnapshot(bbtEntries []models.BBTEntry, mucusEntries []models.CervicalMucusEntry, today time.Time) FertilitySnapshot {
	return FertilitySnapshot{
		Trend:           TemperatureTrend(bbtEntries),
		TodayScore:      FertilityScoreForDate(mucusEntries, today),
		Verdict:         PredictOvulation(bbtEntries, mucusEntries),
		BBTEntryCount:   len(bbtEntries),
		MucusEntryCount: len(mucusEntries),
	}
}
