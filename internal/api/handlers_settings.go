package api

import (
	"github.com/ferngrove/mira/internal/models"
	"github.com/ferngrove/mira/internal/services"
	"github.com/gofiber/fiber/v2"
)

type settingsInput struct {
	PeriodRemindersEnabled *bool   `json:"period_reminders_enabled"`
	NotifyTime             *string `json:"notify_time"`
	AdherenceRetention     *string `json:"adherence_retention"`
}

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	user := handler.currentUser(c)
	return c.JSON(settingsResponse(user))
}

func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	user := handler.currentUser(c)

	input := settingsInput{}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}

	updates := map[string]any{}
	if input.PeriodRemindersEnabled != nil {
		updates["period_reminders_enabled"] = *input.PeriodRemindersEnabled
		user.PeriodRemindersEnabled = *input.PeriodRemindersEnabled
	}
	if input.NotifyTime != nil {
		if _, _, err := services.ParseTimeOfDay(*input.NotifyTime); err != nil {
			return unprocessable(c, err)
		}
		updates["notify_time"] = *input.NotifyTime
		user.NotifyTime = *input.NotifyTime
	}
	if input.AdherenceRetention != nil {
		if !models.ValidAdherenceRetention(*input.AdherenceRetention) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "adherence_retention must be retain or purge"})
		}
		updates["adherence_retention"] = *input.AdherenceRetention
		user.AdherenceRetention = *input.AdherenceRetention
	}

	if len(updates) > 0 {
		if err := handler.repositories.Users.UpdateByID(user.ID, updates); err != nil {
			return internalError(c)
		}
		// Reminder settings feed fire times, so re-derive the schedule.
		if err := handler.resyncNotifications(c); err != nil {
			return internalError(c)
		}
	}

	return c.JSON(settingsResponse(user))
}

func settingsResponse(user *models.User) fiber.Map {
	return fiber.Map{
		"email":                    user.Email,
		"period_reminders_enabled": user.PeriodRemindersEnabled,
		"notify_time":              user.NotifyTime,
		"adherence_retention":      user.AdherenceRetention,
	}
}
