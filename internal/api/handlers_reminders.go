package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/ferngrove/mira/internal/models"
	"github.com/ferngrove/mira/internal/services"
	"github.com/gofiber/fiber/v2"
)

type reminderInput struct {
	Method     string `json:"method"`
	Frequency  string `json:"frequency"`
	TimeOfDay  string `json:"time_of_day"`
	CustomName string `json:"custom_name"`
	Notes      string `json:"notes"`
	IsActive   *bool  `json:"is_active"`
}

type adherenceInput struct {
	Date  string `json:"date"`
	Taken bool   `json:"taken"`
	Notes string `json:"notes"`
}

func (handler *Handler) ListReminders(c *fiber.Ctx) error {
	reminders, err := handler.reminders.List()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(reminders)
}

func (handler *Handler) CreateReminder(c *fiber.Ctx) error {
	input := reminderInput{}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	if input.Frequency == "" {
		input.Frequency = models.FrequencyDaily
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	reminder, err := handler.reminders.Create(c.UserContext(), models.ReminderDefinition{
		Method:     input.Method,
		Frequency:  input.Frequency,
		TimeOfDay:  input.TimeOfDay,
		CustomName: input.CustomName,
		Notes:      input.Notes,
		IsActive:   isActive,
	})
	if err != nil {
		return unprocessable(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reminder)
}

func (handler *Handler) UpdateReminder(c *fiber.Ctx) error {
	existing, err := handler.reminders.FindByID(c.Params("id"))
	if errors.Is(err, services.ErrReminderNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c)
	}

	input := reminderInput{}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}

	existing.Method = input.Method
	existing.Frequency = input.Frequency
	existing.TimeOfDay = input.TimeOfDay
	existing.CustomName = input.CustomName
	existing.Notes = input.Notes
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	updated, err := handler.reminders.Update(c.UserContext(), existing)
	if err != nil {
		return unprocessable(c, err)
	}
	return c.JSON(updated)
}

func (handler *Handler) DeleteReminder(c *fiber.Ctx) error {
	user := handler.currentUser(c)

	err := handler.reminders.Delete(c.UserContext(), c.Params("id"), user.AdherenceRetention)
	if errors.Is(err, services.ErrReminderNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) LogAdherence(c *fiber.Ctx) error {
	reminder, err := handler.reminders.FindByID(c.Params("id"))
	if errors.Is(err, services.ErrReminderNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c)
	}

	input := adherenceInput{}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}

	day := handler.clock.Now()
	if input.Date != "" {
		day, err = handler.parseDay(input.Date)
		if err != nil {
			return badRequest(c, err)
		}
	}

	var takenAt *time.Time
	if input.Taken {
		now := handler.clock.Now()
		takenAt = &now
	}

	entry, err := handler.adherence.LogAdherence(reminder.ID, day, input.Taken, takenAt, input.Notes)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(entry)
}

func (handler *Handler) GetAdherenceStats(c *fiber.Ctx) error {
	reminder, err := handler.reminders.FindByID(c.Params("id"))
	if errors.Is(err, services.ErrReminderNotFound) {
		return notFound(c)
	}
	if err != nil {
		return internalError(c)
	}

	windowDays := 30
	if raw := c.Query("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || (parsed != 7 && parsed != 30 && parsed != 90) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "window must be 7, 30 or 90"})
		}
		windowDays = parsed
	}

	stats, err := handler.adherence.Stats(reminder.ID, windowDays, handler.clock.Now())
	if err != nil {
		return internalError(c)
	}
	return c.JSON(stats)
}
