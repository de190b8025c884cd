package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ferngrove/mira/internal/db"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type fixedClock struct {
	now time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.now
}

type recordingSink struct {
	scheduled map[string]time.Time
	cancelled []string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{scheduled: make(map[string]time.Time)}
}

func (sink *recordingSink) Schedule(_ context.Context, id string, _ string, _ string, fireAt time.Time) (string, error) {
	sink.scheduled[id] = fireAt
	return "test:" + id, nil
}

func (sink *recordingSink) Cancel(_ context.Context, id string) error {
	sink.cancelled = append(sink.cancelled, id)
	delete(sink.scheduled, id)
	return nil
}

func (sink *recordingSink) CancelAll(_ context.Context) error {
	sink.scheduled = make(map[string]time.Time)
	return nil
}

func newTestApp(t *testing.T, now time.Time) (*fiber.App, *gorm.DB, *recordingSink) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "mira-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	sink := newRecordingSink()
	handler := NewHandler(database, HandlerConfig{
		SecretKey: "test-secret-key",
		Location:  time.UTC,
		Clock:     fixedClock{now: now},
		Sink:      sink,
	})

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database, sink
}

func setupAndExtractAuthCookie(t *testing.T, app *fiber.App, email string, password string) string {
	t.Helper()

	body := apiJSON(t, app, "", http.MethodPost, "/api/auth/setup", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusCreated)
	if code, _ := body["recovery_code"].(string); code == "" {
		t.Fatal("expected setup to return a recovery code")
	}

	request := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonReader(t, map[string]any{
		"email":    email,
		"password": password,
	}))
	request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected login status 200, got %d", response.StatusCode)
	}
	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			return cookie.Name + "=" + cookie.Value
		}
	}

	t.Fatal("auth cookie is missing in login response")
	return ""
}

func jsonReader(t *testing.T, payload any) *bytes.Reader {
	t.Helper()

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return bytes.NewReader(raw)
}

// apiJSON performs a request with an optional auth cookie and JSON payload and
// decodes the response body into a generic map.
func apiJSON(t *testing.T, app *fiber.App, authCookie string, method string, path string, payload any, expectedStatus int) map[string]any {
	t.Helper()

	var request *http.Request
	if payload != nil {
		request = httptest.NewRequest(method, path, jsonReader(t, payload))
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	} else {
		request = httptest.NewRequest(method, path, nil)
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode != expectedStatus {
		raw, _ := io.ReadAll(response.Body)
		t.Fatalf("%s %s expected status %d, got %d: %s", method, path, expectedStatus, response.StatusCode, string(raw))
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", method, path, err)
	}
	if len(raw) == 0 {
		return nil
	}

	decoded := map[string]any{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Some endpoints return arrays.
		return map[string]any{"_raw": string(raw)}
	}
	return decoded
}

// apiJSONList is apiJSON for endpoints that return a JSON array.
func apiJSONList(t *testing.T, app *fiber.App, authCookie string, method string, path string, expectedStatus int) []map[string]any {
	t.Helper()

	request := httptest.NewRequest(method, path, nil)
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode != expectedStatus {
		t.Fatalf("%s %s expected status %d, got %d", method, path, expectedStatus, response.StatusCode)
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", method, path, err)
	}

	decoded := []map[string]any{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("%s %s decode body failed: %v: %s", method, path, err, string(raw))
	}
	return decoded
}
