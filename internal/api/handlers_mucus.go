package api

import (
	"github.com/ferngrove/mira/internal/models"
	"github.com/ferngrove/mira/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type mucusInput struct {
	Consistency string `json:"consistency"`
	Amount      string `json:"amount"`
	Notes       string `json:"notes"`
}

func (handler *Handler) ListMucusEntries(c *fiber.Ctx) error {
	entries, err := handler.repositories.MucusEntries.List()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(entries)
}

func (handler *Handler) UpsertMucusEntry(c *fiber.Ctx) error {
	day, err := handler.parseDay(c.Params("date"))
	if err != nil {
		return badRequest(c, err)
	}

	input := mucusInput{}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	if input.Amount == "" {
		input.Amount = models.AmountNone
	}
	if err := services.ValidateMucusEntry(input.Consistency, input.Amount); err != nil {
		return unprocessable(c, err)
	}

	dayStart, dayEnd := services.DayRange(day, handler.location)
	existing, found, err := handler.repositories.MucusEntries.FindByDayRange(dayStart, dayEnd)
	if err != nil {
		return internalError(c)
	}

	if found {
		existing.Consistency = input.Consistency
		existing.Amount = input.Amount
		existing.Notes = input.Notes
		if err := handler.repositories.MucusEntries.Save(&existing); err != nil {
			return internalError(c)
		}
		return c.JSON(existing)
	}

	entry := models.CervicalMucusEntry{
		ID:          uuid.NewString(),
		Date:        dayStart,
		Consistency: input.Consistency,
		Amount:      input.Amount,
		Notes:       input.Notes,
	}
	if err := handler.repositories.MucusEntries.Create(&entry); err != nil {
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) DeleteMucusEntry(c *fiber.Ctx) error {
	day, err := handler.parseDay(c.Params("date"))
	if err != nil {
		return badRequest(c, err)
	}

	dayStart, dayEnd := services.DayRange(day, handler.location)
	if err := handler.repositories.MucusEntries.DeleteByDayRange(dayStart, dayEnd); err != nil {
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
