package api

import (
	"context"
	"time"

	"github.com/ferngrove/mira/internal/db"
	"github.com/ferngrove/mira/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HandlerConfig struct {
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
	Clock        services.Clock
	Sink         services.NotificationSink
}

func NewHandler(database *gorm.DB, config HandlerConfig) *Handler {
	location := config.Location
	if location == nil {
		location = time.UTC
	}
	clock := config.Clock
	if clock == nil {
		clock = services.SystemClock{}
	}

	repositories := db.NewRepositories(database)
	scheduler := services.NewSchedulerService(repositories.Notifications, config.Sink, clock, location)

	return &Handler{
		db:           database,
		secretKey:    []byte(config.SecretKey),
		location:     location,
		cookieSecure: config.CookieSecure,
		clock:        clock,
		repositories: repositories,
		scheduler:    scheduler,
		adherence:    services.NewAdherenceService(repositories.AdherenceLogs, location),
		reminders:    services.NewReminderService(repositories.Reminders, repositories.AdherenceLogs, scheduler),
	}
}

func (handler *Handler) Scheduler() *services.SchedulerService {
	return handler.scheduler
}

// ResyncOnStartup re-derives the notification schedule from persisted history,
// so a restart picks up entries written while the process was down. A no-op
// before first-run setup.
func (handler *Handler) ResyncOnStartup(ctx context.Context) error {
	user, found, err := handler.repositories.Users.First()
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	periods, err := handler.repositories.Periods.List()
	if err != nil {
		return err
	}
	reminders, err := handler.repositories.Reminders.List()
	if err != nil {
		return err
	}
	return handler.scheduler.Resync(ctx, periods, reminders, user)
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
