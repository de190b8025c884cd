package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ferngrove/mira/internal/api"
	"github.com/ferngrove/mira/internal/db"
	"github.com/ferngrove/mira/internal/notify"
	"github.com/ferngrove/mira/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	secretKey := getEnv("SECRET_KEY", "change_me_in_production")
	dbPath := getEnv("DB_PATH", filepath.Join("data", "mira.db"))
	port := getEnv("PORT", "8080")
	dispatchInterval := mustParseDuration(getEnv("NOTIFY_DISPATCH_INTERVAL", "1m"))

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	sink := notify.NewTelegramSink(os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("TELEGRAM_CHAT_ID"), location)
	if !sink.Enabled() {
		log.Printf("notify: telegram credentials missing, notifications stay pending")
	}

	handler := api.NewHandler(database, api.HandlerConfig{
		SecretKey:    secretKey,
		Location:     location,
		CookieSecure: getEnv("COOKIE_SECURE", "") == "1",
		Clock:        services.SystemClock{},
		Sink:         sink,
	})

	app := fiber.New(fiber.Config{
		AppName:               "Mira",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	if err := handler.ResyncOnStartup(lifecycleCtx); err != nil {
		log.Printf("scheduler: startup resync failed: %v", err)
	}
	if err := handler.Scheduler().Restore(lifecycleCtx); err != nil {
		log.Printf("scheduler: restore pending notifications failed: %v", err)
	}
	sink.Start(lifecycleCtx, dispatchInterval)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Mira listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, dbPath, location.String())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func mustParseDuration(value string) time.Duration {
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		log.Printf("invalid dispatch interval %q, falling back to 1m", value)
		return time.Minute
	}
	return parsed
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
