package services

import (
	"errors"
	"testing"
	"time"

	"github.com/ferngrove/mira/internal/models"
)

type fakeAdherenceRepo struct {
	entries map[string]models.AdherenceLogEntry
}

func newFakeAdherenceRepo() *fakeAdherenceRepo {
	return &fakeAdherenceRepo{entries: make(map[string]models.AdherenceLogEntry)}
}

func adherenceKey(reminderID string, day time.Time) string {
	return reminderID + ":" + day.Format("2006-01-02")
}

func (repo *fakeAdherenceRepo) ListByReminder(reminderID string) ([]models.AdherenceLogEntry, error) {
	result := make([]models.AdherenceLogEntry, 0)
	for _, entry := range repo.entries {
		if entry.ReminderID == reminderID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (repo *fakeAdherenceRepo) FindByReminderAndDayRange(reminderID string, dayStart time.Time, _ time.Time) (models.AdherenceLogEntry, bool, error) {
	entry, found := repo.entries[adherenceKey(reminderID, dayStart)]
	return entry, found, nil
}

func (repo *fakeAdherenceRepo) Create(entry *models.AdherenceLogEntry) error {
	repo.entries[adherenceKey(entry.ReminderID, entry.Date)] = *entry
	return nil
}

func (repo *fakeAdherenceRepo) Save(entry *models.AdherenceLogEntry) error {
	repo.entries[adherenceKey(entry.ReminderID, entry.Date)] = *entry
	return nil
}

func (repo *fakeAdherenceRepo) DeleteByReminder(reminderID string) error {
	for key, entry := range repo.entries {
		if entry.ReminderID == reminderID {
			delete(repo.entries, key)
		}
	}
	return nil
}

func adherenceEntry(t *testing.T, reminderID string, day string, taken bool) models.AdherenceLogEntry {
	t.Helper()
	return models.AdherenceLogEntry{
		ID:         reminderID + "-" + day,
		ReminderID: reminderID,
		Date:       mustParseDay(t, day),
		Taken:      taken,
	}
}

func TestBuildAdherenceStats(t *testing.T) {
	t.Parallel()

	today := "2024-03-30"
	logs := []models.AdherenceLogEntry{
		adherenceEntry(t, "r1", "2024-03-30", true),
		adherenceEntry(t, "r1", "2024-03-29", true),
		adherenceEntry(t, "r1", "2024-03-28", false),
		adherenceEntry(t, "r1", "2024-03-25", true),
		adherenceEntry(t, "r1", "2024-02-01", true), // outside every window below
		adherenceEntry(t, "r2", "2024-03-30", true), // other reminder
	}

	stats, err := BuildAdherenceStats("r1", logs, 7, mustParseDay(t, today))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalCount != 7 {
		t.Fatalf("expected total count 7, got %d", stats.TotalCount)
	}
	if stats.TakenCount != 3 {
		t.Fatalf("expected taken count 3, got %d", stats.TakenCount)
	}
	if stats.MissedCount != 1 {
		t.Fatalf("expected missed count 1, got %d", stats.MissedCount)
	}
	// round(3/7*100) = 43
	if stats.AdherenceRate != 43 {
		t.Fatalf("expected rate 43, got %d", stats.AdherenceRate)
	}
	if stats.Rating != RatingNeedsImprovement {
		t.Fatalf("expected needs-improvement rating, got %s", stats.Rating)
	}
	if len(stats.Logs) != 4 {
		t.Fatalf("expected 4 windowed logs, got %d", len(stats.Logs))
	}
	for index := 1; index < len(stats.Logs); index++ {
		if stats.Logs[index].Date.After(stats.Logs[index-1].Date) {
			t.Fatalf("expected logs sorted descending by date")
		}
	}
}

func TestBuildAdherenceStats_RateBounds(t *testing.T) {
	t.Parallel()

	logs := make([]models.AdherenceLogEntry, 0)
	start := mustParseDay(t, "2024-03-01")
	for day := 0; day < 31; day++ {
		logs = append(logs, models.AdherenceLogEntry{
			ID:         start.AddDate(0, 0, day).Format("2006-01-02"),
			ReminderID: "r1",
			Date:       start.AddDate(0, 0, day),
			Taken:      true,
		})
	}

	// Every day of March logged taken: a fully covered 7-day window caps out
	// at exactly the window size.
	stats, err := BuildAdherenceStats("r1", logs, 7, mustParseDay(t, "2024-03-20"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TakenCount != stats.TotalCount {
		t.Fatalf("expected taken count %d to equal total count on a fully logged window, got %d", stats.TotalCount, stats.TakenCount)
	}
	if stats.AdherenceRate != 100 {
		t.Fatalf("expected rate 100, got %d", stats.AdherenceRate)
	}
	if stats.AdherenceRate < 0 || stats.AdherenceRate > 100 {
		t.Fatalf("rate out of bounds: %d", stats.AdherenceRate)
	}
}

func TestBuildAdherenceStats_WindowSpansExactlyWindowDays(t *testing.T) {
	t.Parallel()

	logs := []models.AdherenceLogEntry{
		adherenceEntry(t, "r1", "2024-03-13", true), // one day before the window
		adherenceEntry(t, "r1", "2024-03-14", true), // oldest day inside
		adherenceEntry(t, "r1", "2024-03-20", true), // newest day inside
	}

	stats, err := BuildAdherenceStats("r1", logs, 7, mustParseDay(t, "2024-03-20"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TakenCount != 2 {
		t.Fatalf("expected the window to cover 2024-03-14 through 2024-03-20, got taken count %d", stats.TakenCount)
	}
	if stats.TakenCount > stats.TotalCount {
		t.Fatalf("taken count %d exceeds total count %d", stats.TakenCount, stats.TotalCount)
	}
}

func TestBuildAdherenceStats_InvalidWindow(t *testing.T) {
	t.Parallel()

	_, err := BuildAdherenceStats("r1", nil, 0, time.Now())
	if !errors.Is(err, ErrAdherenceWindowInvalid) {
		t.Fatalf("expected ErrAdherenceWindowInvalid, got %v", err)
	}
}

func TestAdherenceRating(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rate int
		want string
	}{
		{rate: 100, want: RatingExcellent},
		{rate: 90, want: RatingExcellent},
		{rate: 89, want: RatingGood},
		{rate: 70, want: RatingGood},
		{rate: 69, want: RatingFair},
		{rate: 50, want: RatingFair},
		{rate: 49, want: RatingNeedsImprovement},
		{rate: 0, want: RatingNeedsImprovement},
	}

	for _, testCase := range cases {
		if got := AdherenceRating(testCase.rate); got != testCase.want {
			t.Fatalf("rate %d: expected %s, got %s", testCase.rate, testCase.want, got)
		}
	}
}

func TestLogAdherence_UpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := newFakeAdherenceRepo()
	service := NewAdherenceService(repo, time.UTC)
	day := mustParseDay(t, "2024-03-02")

	first, err := service.LogAdherence("r1", day, false, nil, "")
	if err != nil {
		t.Fatalf("first log failed: %v", err)
	}

	takenAt := time.Date(2024, 3, 2, 9, 15, 0, 0, time.UTC)
	second, err := service.LogAdherence("r1", day, true, &takenAt, "took it late")
	if err != nil {
		t.Fatalf("second log failed: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected the same entry to be updated, got ids %s and %s", first.ID, second.ID)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected exactly one entry per (reminder, date), got %d", len(repo.entries))
	}

	stored := repo.entries[adherenceKey("r1", day)]
	if !stored.Taken || stored.TakenAt == nil || stored.Notes != "took it late" {
		t.Fatalf("expected second write to overwrite the first, got %+v", stored)
	}
}

func TestLogAdherence_SeparateDaysCreateSeparateEntries(t *testing.T) {
	t.Parallel()

	repo := newFakeAdherenceRepo()
	service := NewAdherenceService(repo, time.UTC)

	if _, err := service.LogAdherence("r1", mustParseDay(t, "2024-03-02"), true, nil, ""); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if _, err := service.LogAdherence("r1", mustParseDay(t, "2024-03-03"), true, nil, ""); err != nil {
		t.Fatalf("log failed: %v", err)
	}

	if len(repo.entries) != 2 {
		t.Fatalf("expected two entries for two days, got %d", len(repo.entries))
	}
}
