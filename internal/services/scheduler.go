package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ferngrove/mira/internal/models"
)

// NotificationSink is the platform delivery collaborator. The scheduler never
// talks to a notification API directly.
type NotificationSink interface {
	Schedule(ctx context.Context, id string, title string, body string, fireAt time.Time) (string, error)
	Cancel(ctx context.Context, id string) error
	CancelAll(ctx context.Context) error
}

type NotificationStore interface {
	Upsert(notification *models.ScheduledNotification) error
	Delete(id string) error
	DeleteAll() error
	List() ([]models.ScheduledNotification, error)
	ListActive() ([]models.ScheduledNotification, error)
}

// Notification ids are pure functions of (type, subject), which makes
// re-scheduling idempotent: scheduling the same subject twice replaces the
// previous row instead of duplicating it.

func PeriodNotificationID(periodID string) string {
	return fmt.Sprintf("period:%s", periodID)
}

func OvulationNotificationID(day time.Time) string {
	return fmt.Sprintf("ovulation:%s", day.Format("2006-01-02"))
}

func FertileWindowNotificationID(day time.Time) string {
	return fmt.Sprintf("fertile_window:%s", day.Format("2006-01-02"))
}

func BirthControlNotificationID(reminderID string) string {
	return fmt.Sprintf("birth_control:%s", reminderID)
}

type SchedulerService struct {
	store    NotificationStore
	sink     NotificationSink
	clock    Clock
	location *time.Location
}

func NewSchedulerService(store NotificationStore, sink NotificationSink, clock Clock, location *time.Location) *SchedulerService {
	if clock == nil {
		clock = SystemClock{}
	}
	if location == nil {
		location = time.UTC
	}
	return &SchedulerService{
		store:    store,
		sink:     sink,
		clock:    clock,
		location: location,
	}
}

// ScheduleForPeriod plans a reminder for the predicted next period start.
// Skipped entirely when period reminders are disabled in settings; the skip is
// reported through ok=false, not an error.
func (service *SchedulerService) ScheduleForPeriod(ctx context.Context, period models.PeriodRecord, predictedStart time.Time, notifyTime string, enabled bool) (models.ScheduledNotification, bool, error) {
	if !enabled {
		return models.ScheduledNotification{}, false, nil
	}

	fireAt, err := CombineDateTime(predictedStart, notifyTime, service.location)
	if err != nil {
		return models.ScheduledNotification{}, false, err
	}

	notification := models.ScheduledNotification{
		ID:          PeriodNotificationID(period.ID),
		Type:        models.NotificationPeriod,
		Title:       "Period reminder",
		Body:        fmt.Sprintf("Your next period is predicted to start on %s.", predictedStart.Format("Jan 2")),
		ScheduledAt: fireAt,
		RelatedID:   period.ID,
	}
	if err := service.submit(ctx, &notification); err != nil {
		return models.ScheduledNotification{}, false, err
	}
	return notification, true, nil
}

func (service *SchedulerService) ScheduleForOvulation(ctx context.Context, day time.Time, notifyTime string) (models.ScheduledNotification, error) {
	fireAt, err := CombineDateTime(day, notifyTime, service.location)
	if err != nil {
		return models.ScheduledNotification{}, err
	}

	notification := models.ScheduledNotification{
		ID:          OvulationNotificationID(dateOnly(day)),
		Type:        models.NotificationOvulation,
		Title:       "Ovulation day",
		Body:        fmt.Sprintf("Predicted ovulation on %s.", day.Format("Jan 2")),
		ScheduledAt: fireAt,
		RelatedID:   dateOnly(day).Format("2006-01-02"),
	}
	if err := service.submit(ctx, &notification); err != nil {
		return models.ScheduledNotification{}, err
	}
	return notification, nil
}

func (service *SchedulerService) ScheduleForFertileWindow(ctx context.Context, day time.Time, notifyTime string) (models.ScheduledNotification, error) {
	fireAt, err := CombineDateTime(day, notifyTime, service.location)
	if err != nil {
		return models.ScheduledNotification{}, err
	}

	notification := models.ScheduledNotification{
		ID:          FertileWindowNotificationID(dateOnly(day)),
		Type:        models.NotificationFertileWindow,
		Title:       "Fertile window",
		Body:        fmt.Sprintf("Your fertile window is predicted to open on %s.", day.Format("Jan 2")),
		ScheduledAt: fireAt,
		RelatedID:   dateOnly(day).Format("2006-01-02"),
	}
	if err := service.submit(ctx, &notification); err != nil {
		return models.ScheduledNotification{}, err
	}
	return notification, nil
}

// ScheduleForBirthControl fires today at the reminder's time of day, rolling
// forward to tomorrow when that time has already passed. Never schedules in
// the past.
func (service *SchedulerService) ScheduleForBirthControl(ctx context.Context, reminder models.ReminderDefinition) (models.ScheduledNotification, error) {
	now := service.clock.Now().In(service.location)
	fireAt, err := CombineDateTime(now, reminder.TimeOfDay, service.location)
	if err != nil {
		return models.ScheduledNotification{}, err
	}
	if !fireAt.After(now) {
		fireAt = fireAt.AddDate(0, 0, 1)
	}

	name := reminder.CustomName
	if name == "" {
		name = reminder.Method
	}

	notification := models.ScheduledNotification{
		ID:          BirthControlNotificationID(reminder.ID),
		Type:        models.NotificationBirthControl,
		Title:       "Birth control reminder",
		Body:        fmt.Sprintf("Time to take %s.", name),
		ScheduledAt: fireAt,
		RelatedID:   reminder.ID,
	}
	if err := service.submit(ctx, &notification); err != nil {
		return models.ScheduledNotification{}, err
	}
	return notification, nil
}

func (service *SchedulerService) Cancel(ctx context.Context, id string) error {
	if err := service.sink.Cancel(ctx, id); err != nil {
		log.Printf("scheduler: sink cancel %s failed: %v", id, err)
	}
	return service.store.Delete(id)
}

func (service *SchedulerService) CancelAll(ctx context.Context) error {
	if err := service.sink.CancelAll(ctx); err != nil {
		log.Printf("scheduler: sink cancel all failed: %v", err)
	}
	return service.store.DeleteAll()
}

// Resync re-derives every prediction-driven notification from current history.
// Deterministic ids make this safe to call after any upstream change; rows
// whose id no longer appears in the derived set are retired.
func (service *SchedulerService) Resync(ctx context.Context, periods []models.PeriodRecord, reminders []models.ReminderDefinition, user models.User) error {
	notifyTime := user.NotifyTime
	if notifyTime == "" {
		notifyTime = models.DefaultNotifyTime
	}

	expected := make(map[string]struct{})

	sorted := sortPeriodsByStart(periods)
	if len(sorted) > 0 {
		last := sorted[len(sorted)-1]
		next, _ := PredictNextPeriodStart(periods)

		if _, scheduled, err := service.ScheduleForPeriod(ctx, last, next, notifyTime, user.PeriodRemindersEnabled); err != nil {
			return fmt.Errorf("resync period notification: %w", err)
		} else if scheduled {
			expected[PeriodNotificationID(last.ID)] = struct{}{}
		}

		ovulation := PredictOvulationDate(next)
		if _, err := service.ScheduleForOvulation(ctx, ovulation, notifyTime); err != nil {
			return fmt.Errorf("resync ovulation notification: %w", err)
		}
		expected[OvulationNotificationID(dateOnly(ovulation))] = struct{}{}

		windowStart, _ := FertileWindow(ovulation)
		if _, err := service.ScheduleForFertileWindow(ctx, windowStart, notifyTime); err != nil {
			return fmt.Errorf("resync fertile window notification: %w", err)
		}
		expected[FertileWindowNotificationID(dateOnly(windowStart))] = struct{}{}
	}

	for _, reminder := range reminders {
		if !reminder.IsActive {
			continue
		}
		if _, err := service.ScheduleForBirthControl(ctx, reminder); err != nil {
			return fmt.Errorf("resync birth control notification %s: %w", reminder.ID, err)
		}
		expected[BirthControlNotificationID(reminder.ID)] = struct{}{}
	}

	return service.pruneExcept(ctx, expected)
}

// pruneExcept retires every stored notification whose id is not in keep.
func (service *SchedulerService) pruneExcept(ctx context.Context, keep map[string]struct{}) error {
	stored, err := service.store.List()
	if err != nil {
		return fmt.Errorf("list notifications for prune: %w", err)
	}
	for _, notification := range stored {
		if _, ok := keep[notification.ID]; ok {
			continue
		}
		if err := service.Cancel(ctx, notification.ID); err != nil {
			return fmt.Errorf("prune notification %s: %w", notification.ID, err)
		}
	}
	return nil
}

// Restore resubmits persisted active notifications to the sink, for process
// restarts where the sink keeps its pending set in memory.
func (service *SchedulerService) Restore(ctx context.Context) error {
	notifications, err := service.store.ListActive()
	if err != nil {
		return err
	}

	now := service.clock.Now()
	for index := range notifications {
		notification := notifications[index]
		if notification.ScheduledAt.Before(now) {
			continue
		}
		if err := service.submit(ctx, &notification); err != nil {
			return err
		}
	}
	return nil
}

// submit asks the sink to schedule and persists the outcome. A sink rejection
// is non-fatal: the row is kept inactive so the UI can show a pending state.
func (service *SchedulerService) submit(ctx context.Context, notification *models.ScheduledNotification) error {
	handle, sinkErr := service.sink.Schedule(ctx, notification.ID, notification.Title, notification.Body, notification.ScheduledAt)
	if sinkErr != nil {
		log.Printf("scheduler: sink rejected %s: %v", notification.ID, sinkErr)
		notification.IsActive = false
		notification.PlatformHandle = ""
	} else {
		notification.IsActive = true
		notification.PlatformHandle = handle
	}

	if err := service.store.Upsert(notification); err != nil {
		return fmt.Errorf("persist notification %s: %w", notification.ID, err)
	}
	return nil
}
