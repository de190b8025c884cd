package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ferngrove/mira/internal/db"
)

func TestFirstRunAndCycleInsightsFlow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	app, _, sink := newTestApp(t, now)

	status := apiJSON(t, app, "", http.MethodGet, "/api/auth/setup-status", nil, http.StatusOK)
	if status["needs_setup"] != true {
		t.Fatalf("expected a fresh database to need setup, got %v", status["needs_setup"])
	}

	authCookie := setupAndExtractAuthCookie(t, app, "smoke@example.com", "StrongPass1")

	status = apiJSON(t, app, "", http.MethodGet, "/api/auth/setup-status", nil, http.StatusOK)
	if status["needs_setup"] != false {
		t.Fatalf("expected setup to be complete, got %v", status["needs_setup"])
	}

	for _, period := range []map[string]any{
		{"start_date": "2024-01-01", "end_date": "2024-01-05"},
		{"start_date": "2024-01-29", "end_date": "2024-02-02"},
		{"start_date": "2024-02-26", "end_date": "2024-02-29"},
	} {
		apiJSON(t, app, authCookie, http.MethodPost, "/api/periods", period, http.StatusCreated)
	}

	overview := apiJSON(t, app, authCookie, http.MethodGet, "/api/insights/cycle", nil, http.StatusOK)
	if overview["current_phase"] != "menstrual" {
		t.Fatalf("expected menstrual phase on cycle day 6, got %v", overview["current_phase"])
	}
	if overview["average_cycle_length"] != float64(28) {
		t.Fatalf("expected average cycle length 28, got %v", overview["average_cycle_length"])
	}
	if overview["days_until_next_period"] != float64(23) {
		t.Fatalf("expected 23 days until the next period, got %v", overview["days_until_next_period"])
	}

	// Creating periods resyncs the schedule: period, ovulation and
	// fertile window notifications land in the sink.
	if _, ok := sink.scheduled["ovulation:2024-03-11"]; !ok {
		t.Fatalf("expected an ovulation notification, got %v", sink.scheduled)
	}
	if _, ok := sink.scheduled["fertile_window:2024-03-06"]; !ok {
		t.Fatalf("expected a fertile window notification, got %v", sink.scheduled)
	}

	notifications := apiJSONList(t, app, authCookie, http.MethodGet, "/api/notifications", http.StatusOK)
	if len(notifications) != 3 {
		t.Fatalf("expected three scheduled notifications, got %d", len(notifications))
	}
}

func TestReminderAdherenceFlow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	app, _, sink := newTestApp(t, now)
	authCookie := setupAndExtractAuthCookie(t, app, "adherence@example.com", "StrongPass1")

	reminder := apiJSON(t, app, authCookie, http.MethodPost, "/api/reminders", map[string]any{
		"method":      "pill",
		"time_of_day": "09:00",
	}, http.StatusCreated)
	reminderID, _ := reminder["id"].(string)
	if reminderID == "" {
		t.Fatalf("expected the created reminder to carry an id, got %v", reminder)
	}
	if _, ok := sink.scheduled["birth_control:"+reminderID]; !ok {
		t.Fatalf("expected a birth control notification, got %v", sink.scheduled)
	}

	apiJSON(t, app, authCookie, http.MethodPost, "/api/reminders/"+reminderID+"/log", map[string]any{
		"date":  "2024-03-01",
		"taken": true,
	}, http.StatusOK)
	apiJSON(t, app, authCookie, http.MethodPost, "/api/reminders/"+reminderID+"/log", map[string]any{
		"date":  "2024-03-02",
		"taken": true,
	}, http.StatusOK)

	stats := apiJSON(t, app, authCookie, http.MethodGet, "/api/reminders/"+reminderID+"/adherence?window=7", nil, http.StatusOK)
	if stats["taken_count"] != float64(2) {
		t.Fatalf("expected two taken days, got %v", stats["taken_count"])
	}
	if stats["total_count"] != float64(7) {
		t.Fatalf("expected a 7 day window, got %v", stats["total_count"])
	}

	apiJSON(t, app, authCookie, http.MethodGet, "/api/reminders/"+reminderID+"/adherence?window=14", nil, http.StatusBadRequest)

	// Deleting the reminder retires its notification.
	request := httptest.NewRequest(http.MethodDelete, "/api/reminders/"+reminderID, nil)
	request.Header.Set("Cookie", authCookie)
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("delete reminder failed: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusNoContent {
		t.Fatalf("expected delete status 204, got %d", response.StatusCode)
	}
	if _, ok := sink.scheduled["birth_control:"+reminderID]; ok {
		t.Fatalf("expected the notification to be cancelled")
	}
}

func TestPeriodValidationFlow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	app, _, _ := newTestApp(t, now)
	authCookie := setupAndExtractAuthCookie(t, app, "validation@example.com", "StrongPass1")

	apiJSON(t, app, authCookie, http.MethodPost, "/api/periods", map[string]any{
		"start_date": "2024-02-26",
		"end_date":   "2024-02-29",
	}, http.StatusCreated)

	// End before start.
	apiJSON(t, app, authCookie, http.MethodPost, "/api/periods", map[string]any{
		"start_date": "2024-03-10",
		"end_date":   "2024-03-08",
	}, http.StatusUnprocessableEntity)

	// Overlaps the existing record.
	apiJSON(t, app, authCookie, http.MethodPost, "/api/periods", map[string]any{
		"start_date": "2024-02-28",
		"end_date":   "2024-03-03",
	}, http.StatusUnprocessableEntity)

	// Malformed date.
	apiJSON(t, app, authCookie, http.MethodPost, "/api/periods", map[string]any{
		"start_date": "26.02.2024",
	}, http.StatusBadRequest)
}

func TestResyncOnStartupBeforeSetupIsNoOp(t *testing.T) {
	t.Parallel()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "mira-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sink := newRecordingSink()
	handler := NewHandler(database, HandlerConfig{
		SecretKey: "test-secret-key",
		Location:  time.UTC,
		Clock:     fixedClock{now: time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)},
		Sink:      sink,
	})

	if err := handler.ResyncOnStartup(context.Background()); err != nil {
		t.Fatalf("startup resync on an empty database failed: %v", err)
	}
	if len(sink.scheduled) != 0 {
		t.Fatalf("expected no notifications before setup, got %v", sink.scheduled)
	}
}

func TestAuthRequiredOnProtectedRoutes(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	app, _, _ := newTestApp(t, now)

	for _, path := range []string{
		"/api/periods",
		"/api/bbt",
		"/api/mucus",
		"/api/reminders",
		"/api/insights/cycle",
		"/api/notifications",
		"/api/settings",
	} {
		request := httptest.NewRequest(http.MethodGet, path, nil)
		response, err := app.Test(request, -1)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		response.Body.Close()
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("GET %s expected status 401, got %d", path, response.StatusCode)
		}
	}
}

func TestRecoveryCodeFlow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	app, _, _ := newTestApp(t, now)

	created := apiJSON(t, app, "", http.MethodPost, "/api/auth/setup", map[string]any{
		"email":    "recovery@example.com",
		"password": "StrongPass1",
	}, http.StatusCreated)
	code, _ := created["recovery_code"].(string)
	if code == "" {
		t.Fatal("expected setup to return a recovery code")
	}

	apiJSON(t, app, "", http.MethodPost, "/api/auth/recover", map[string]any{
		"email":         "recovery@example.com",
		"recovery_code": "WRONGCODE123",
		"new_password":  "AnotherPass1",
	}, http.StatusUnauthorized)

	recovered := apiJSON(t, app, "", http.MethodPost, "/api/auth/recover", map[string]any{
		"email":         "recovery@example.com",
		"recovery_code": code,
		"new_password":  "AnotherPass1",
	}, http.StatusOK)
	nextCode, _ := recovered["recovery_code"].(string)
	if nextCode == "" || nextCode == code {
		t.Fatalf("expected the recovery code to rotate, got %q", nextCode)
	}

	// The old code is spent.
	apiJSON(t, app, "", http.MethodPost, "/api/auth/recover", map[string]any{
		"email":         "recovery@example.com",
		"recovery_code": code,
		"new_password":  "ThirdPass123",
	}, http.StatusUnauthorized)

	// Old password no longer works, the new one does.
	apiJSON(t, app, "", http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "recovery@example.com",
		"password": "StrongPass1",
	}, http.StatusUnauthorized)
	apiJSON(t, app, "", http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "recovery@example.com",
		"password": "AnotherPass1",
	}, http.StatusOK)
}

func TestChangePasswordFlow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	app, _, _ := newTestApp(t, now)
	authCookie := setupAndExtractAuthCookie(t, app, "password@example.com", "StrongPass1")

	apiJSON(t, app, authCookie, http.MethodPost, "/api/auth/change-password", map[string]any{
		"current_password": "WrongPass99",
		"new_password":     "AnotherPass1",
	}, http.StatusUnauthorized)
	apiJSON(t, app, authCookie, http.MethodPost, "/api/auth/change-password", map[string]any{
		"current_password": "StrongPass1",
		"new_password":     "short",
	}, http.StatusBadRequest)
	apiJSON(t, app, authCookie, http.MethodPost, "/api/auth/change-password", map[string]any{
		"current_password": "StrongPass1",
		"new_password":     "AnotherPass1",
	}, http.StatusNoContent)

	apiJSON(t, app, "", http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "password@example.com",
		"password": "StrongPass1",
	}, http.StatusUnauthorized)
	apiJSON(t, app, "", http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "password@example.com",
		"password": "AnotherPass1",
	}, http.StatusOK)
}

func TestSettingsUpdateFlow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	app, _, _ := newTestApp(t, now)
	authCookie := setupAndExtractAuthCookie(t, app, "settings@example.com", "StrongPass1")

	settings := apiJSON(t, app, authCookie, http.MethodGet, "/api/settings", nil, http.StatusOK)
	if settings["notify_time"] != "09:00" {
		t.Fatalf("expected the default notify time, got %v", settings["notify_time"])
	}
	if settings["adherence_retention"] != "retain" {
		t.Fatalf("expected the default retention policy, got %v", settings["adherence_retention"])
	}

	updated := apiJSON(t, app, authCookie, http.MethodPatch, "/api/settings", map[string]any{
		"notify_time":         "21:30",
		"adherence_retention": "purge",
	}, http.StatusOK)
	if updated["notify_time"] != "21:30" {
		t.Fatalf("expected the notify time to change, got %v", updated["notify_time"])
	}
	if updated["adherence_retention"] != "purge" {
		t.Fatalf("expected the retention policy to change, got %v", updated["adherence_retention"])
	}

	apiJSON(t, app, authCookie, http.MethodPatch, "/api/settings", map[string]any{
		"notify_time": "25:99",
	}, http.StatusUnprocessableEntity)
	apiJSON(t, app, authCookie, http.MethodPatch, "/api/settings", map[string]any{
		"adherence_retention": "forever",
	}, http.StatusUnprocessableEntity)
}

func TestBBTAndMucusUpsertFlow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	app, _, _ := newTestApp(t, now)
	authCookie := setupAndExtractAuthCookie(t, app, "fertility@example.com", "StrongPass1")

	apiJSON(t, app, authCookie, http.MethodPost, "/api/bbt/2024-03-01", map[string]any{
		"temperature_celsius": 36.5,
	}, http.StatusCreated)

	// Same day replaces rather than duplicating.
	apiJSON(t, app, authCookie, http.MethodPost, "/api/bbt/2024-03-01", map[string]any{
		"temperature_celsius": 36.6,
	}, http.StatusOK)

	entries := apiJSONList(t, app, authCookie, http.MethodGet, "/api/bbt", http.StatusOK)
	if len(entries) != 1 {
		t.Fatalf("expected one entry per day, got %d", len(entries))
	}
	if entries[0]["temperature_celsius"] != 36.6 {
		t.Fatalf("expected the replaced temperature, got %v", entries[0]["temperature_celsius"])
	}

	ranged := apiJSONList(t, app, authCookie, http.MethodGet, "/api/bbt?from=2024-03-02&to=2024-03-05", http.StatusOK)
	if len(ranged) != 0 {
		t.Fatalf("expected the range filter to exclude the entry, got %d", len(ranged))
	}

	// Out of the plausible range.
	apiJSON(t, app, authCookie, http.MethodPost, "/api/bbt/2024-03-02", map[string]any{
		"temperature_celsius": 34.0,
	}, http.StatusUnprocessableEntity)

	apiJSON(t, app, authCookie, http.MethodPost, "/api/mucus/2024-03-01", map[string]any{
		"consistency": "egg-white",
		"amount":      "heavy",
	}, http.StatusCreated)
	apiJSON(t, app, authCookie, http.MethodPost, "/api/mucus/2024-03-02", map[string]any{
		"consistency": "glittery",
	}, http.StatusUnprocessableEntity)

	snapshot := apiJSON(t, app, authCookie, http.MethodGet, "/api/insights/fertility", nil, http.StatusOK)
	if snapshot["fertility_score_today"] == nil {
		t.Fatalf("expected a fertility snapshot, got %v", snapshot)
	}
}
