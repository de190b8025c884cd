package api

import (
	"time"

	"github.com/ferngrove/mira/internal/models"
	"github.com/ferngrove/mira/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type bbtInput struct {
	TemperatureCelsius float64 `json:"temperature_celsius"`
	MeasuredAt         string  `json:"measured_at"`
	Notes              string  `json:"notes"`
}

// ListBBTEntries optionally narrows to [from, to] via query params, both
// inclusive calendar dates.
func (handler *Handler) ListBBTEntries(c *fiber.Ctx) error {
	var fromStart, toEnd *time.Time
	if raw := c.Query("from"); raw != "" {
		day, err := handler.parseDay(raw)
		if err != nil {
			return badRequest(c, err)
		}
		fromStart = &day
	}
	if raw := c.Query("to"); raw != "" {
		day, err := handler.parseDay(raw)
		if err != nil {
			return badRequest(c, err)
		}
		end := day.AddDate(0, 0, 1)
		toEnd = &end
	}

	entries, err := handler.repositories.BBTEntries.ListRange(fromStart, toEnd)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(entries)
}

// UpsertBBTEntry enforces one measurement per calendar date: posting the same
// date again updates the existing entry.
func (handler *Handler) UpsertBBTEntry(c *fiber.Ctx) error {
	day, err := handler.parseDay(c.Params("date"))
	if err != nil {
		return badRequest(c, err)
	}

	input := bbtInput{}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	if err := services.ValidateTemperature(input.TemperatureCelsius); err != nil {
		return unprocessable(c, err)
	}
	if input.MeasuredAt != "" {
		if _, _, err := services.ParseTimeOfDay(input.MeasuredAt); err != nil {
			return unprocessable(c, err)
		}
	}

	dayStart, dayEnd := services.DayRange(day, handler.location)
	existing, found, err := handler.repositories.BBTEntries.FindByDayRange(dayStart, dayEnd)
	if err != nil {
		return internalError(c)
	}

	if found {
		existing.TemperatureCelsius = input.TemperatureCelsius
		existing.MeasuredAt = input.MeasuredAt
		existing.Notes = input.Notes
		if err := handler.repositories.BBTEntries.Save(&existing); err != nil {
			return internalError(c)
		}
		return c.JSON(existing)
	}

	entry := models.BBTEntry{
		ID:                 uuid.NewString(),
		Date:               dayStart,
		TemperatureCelsius: input.TemperatureCelsius,
		MeasuredAt:         input.MeasuredAt,
		Notes:              input.Notes,
	}
	if err := handler.repositories.BBTEntries.Create(&entry); err != nil {
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) DeleteBBTEntry(c *fiber.Ctx) error {
	day, err := handler.parseDay(c.Params("date"))
	if err != nil {
		return badRequest(c, err)
	}

	dayStart, dayEnd := services.DayRange(day, handler.location)
	if err := handler.repositories.BBTEntries.DeleteByDayRange(dayStart, dayEnd); err != nil {
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
