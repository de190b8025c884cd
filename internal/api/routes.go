package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Get("/setup-status", handler.SetupStatus)
	auth.Post("/setup", handler.Setup)
	auth.Post("/login", handler.Login)
	auth.Post("/recover", handler.Recover)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Post("/change-password", handler.AuthRequired, handler.ChangePassword)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Get("", handler.GetSettings)
	settings.Patch("", handler.UpdateSettings)

	periods := api.Group("/periods", handler.AuthRequired)
	periods.Get("", handler.ListPeriods)
	periods.Post("", handler.CreatePeriod)
	periods.Put("/:id", handler.UpdatePeriod)
	periods.Delete("/:id", handler.DeletePeriod)

	bbt := api.Group("/bbt", handler.AuthRequired)
	bbt.Get("", handler.ListBBTEntries)
	bbt.Post("/:date", handler.UpsertBBTEntry)
	bbt.Delete("/:date", handler.DeleteBBTEntry)

	mucus := api.Group("/mucus", handler.AuthRequired)
	mucus.Get("", handler.ListMucusEntries)
	mucus.Post("/:date", handler.UpsertMucusEntry)
	mucus.Delete("/:date", handler.DeleteMucusEntry)

	reminders := api.Group("/reminders", handler.AuthRequired)
	reminders.Get("", handler.ListReminders)
	reminders.Post("", handler.CreateReminder)
	reminders.Put("/:id", handler.UpdateReminder)
	reminders.Delete("/:id", handler.DeleteReminder)
	reminders.Post("/:id/log", handler.LogAdherence)
	reminders.Get("/:id/adherence", handler.GetAdherenceStats)

	insights := api.Group("/insights", handler.AuthRequired)
	insights.Get("/cycle", handler.GetCycleOverview)
	insights.Get("/fertility", handler.GetFertilitySnapshot)

	notifications := api.Group("/notifications", handler.AuthRequired)
	notifications.Get("", handler.ListNotifications)
	notifications.Post("/resync", handler.ResyncNotifications)
	notifications.Delete("", handler.CancelAllNotifications)
}
