package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrSinkDisabled reports that the sink has no delivery channel configured
// (e.g. missing bot credentials). Callers treat it as a scheduling failure,
// not a fatal error.
var ErrSinkDisabled = errors.New("notification sink disabled")

type pendingNotification struct {
	Title  string
	Body   string
	FireAt time.Time
}

// TelegramSink delivers scheduled notifications through the Telegram Bot API.
// Telegram cannot schedule future messages, so the sink keeps its own pending
// set and a ticker drains whatever has come due.
type TelegramSink struct {
	botToken string
	chatID   string
	enabled  bool
	location *time.Location
	client   *http.Client

	mu        sync.Mutex
	pending   map[string]pendingNotification
	delivered map[string]time.Time
}

func NewTelegramSink(botToken string, chatID string, location *time.Location) *TelegramSink {
	if location == nil {
		location = time.UTC
	}
	return &TelegramSink{
		botToken: botToken,
		chatID:   chatID,
		enabled:  botToken != "" && chatID != "",
		location: location,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
		pending:   make(map[string]pendingNotification),
		delivered: make(map[string]time.Time),
	}
}

func (sink *TelegramSink) Enabled() bool {
	return sink.enabled
}

func (sink *TelegramSink) Schedule(_ context.Context, id string, title string, body string, fireAt time.Time) (string, error) {
	if !sink.enabled {
		return "", ErrSinkDisabled
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.pending[id] = pendingNotification{Title: title, Body: body, FireAt: fireAt}
	return "telegram:" + id, nil
}

func (sink *TelegramSink) Cancel(_ context.Context, id string) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	delete(sink.pending, id)
	return nil
}

func (sink *TelegramSink) CancelAll(_ context.Context) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.pending = make(map[string]pendingNotification)
	return nil
}

func (sink *TelegramSink) PendingCount() int {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return len(sink.pending)
}

// Start drains due notifications on a fixed interval until ctx is cancelled.
func (sink *TelegramSink) Start(ctx context.Context, interval time.Duration) {
	if !sink.enabled {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()

		sink.dispatch(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sink.dispatch(ctx)
			}
		}
	}()
}

func (sink *TelegramSink) dispatch(ctx context.Context) {
	now := time.Now().In(sink.location)
	due := sink.takeDue(now)

	for id, notification := range due {
		message := notification.Title + "\n" + notification.Body
		if err := sink.sendTelegram(ctx, message); err != nil {
			log.Printf("notify: send %s failed: %v", id, err)
			sink.requeue(id, notification)
		}
	}
}

func (sink *TelegramSink) takeDue(now time.Time) map[string]pendingNotification {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	due := make(map[string]pendingNotification)
	for id, notification := range sink.pending {
		if notification.FireAt.After(now) {
			continue
		}
		if deliveredAt, ok := sink.delivered[id]; ok && sameDay(deliveredAt, now) {
			delete(sink.pending, id)
			continue
		}
		due[id] = notification
		delete(sink.pending, id)
		sink.delivered[id] = now
	}

	if len(sink.delivered) > 500 {
		sink.delivered = make(map[string]time.Time)
	}
	return due
}

func (sink *TelegramSink) requeue(id string, notification pendingNotification) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.pending[id] = notification
	delete(sink.delivered, id)
}

func (sink *TelegramSink) sendTelegram(ctx context.Context, message string) error {
	values := url.Values{}
	values.Set("chat_id", sink.chatID)
	values.Set("text", message)

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", sink.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := sink.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}
