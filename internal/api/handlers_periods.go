package api

import (
	"errors"
	"time"

	"github.com/ferngrove/mira/internal/models"
	"github.com/ferngrove/mira/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type periodInput struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Notes     string `json:"notes"`
}

func (handler *Handler) ListPeriods(c *fiber.Ctx) error {
	records, err := handler.repositories.Periods.List()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(records)
}

func (handler *Handler) CreatePeriod(c *fiber.Ctx) error {
	record, err := handler.periodFromBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	record.ID = uuid.NewString()

	if err := handler.validatePeriodWrite(record); err != nil {
		return unprocessable(c, err)
	}
	if err := handler.repositories.Periods.Create(&record); err != nil {
		return internalError(c)
	}
	if err := handler.resyncNotifications(c); err != nil {
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (handler *Handler) UpdatePeriod(c *fiber.Ctx) error {
	id := c.Params("id")
	existing, found, err := handler.repositories.Periods.FindByID(id)
	if err != nil {
		return internalError(c)
	}
	if !found {
		return notFound(c)
	}

	record, err := handler.periodFromBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt

	if err := handler.validatePeriodWrite(record); err != nil {
		return unprocessable(c, err)
	}
	if err := handler.repositories.Periods.Save(&record); err != nil {
		return internalError(c)
	}
	if err := handler.resyncNotifications(c); err != nil {
		return internalError(c)
	}
	return c.JSON(record)
}

func (handler *Handler) DeletePeriod(c *fiber.Ctx) error {
	id := c.Params("id")
	_, found, err := handler.repositories.Periods.FindByID(id)
	if err != nil {
		return internalError(c)
	}
	if !found {
		return notFound(c)
	}

	if err := handler.repositories.Periods.Delete(id); err != nil {
		return internalError(c)
	}
	if err := handler.scheduler.Cancel(c.UserContext(), services.PeriodNotificationID(id)); err != nil {
		return internalError(c)
	}
	if err := handler.resyncNotifications(c); err != nil {
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) periodFromBody(c *fiber.Ctx) (models.PeriodRecord, error) {
	input := periodInput{}
	if err := c.BodyParser(&input); err != nil {
		return models.PeriodRecord{}, err
	}

	startDate, err := handler.parseDay(input.StartDate)
	if err != nil {
		return models.PeriodRecord{}, err
	}

	var endDate *time.Time
	if input.EndDate != "" {
		parsed, err := handler.parseDay(input.EndDate)
		if err != nil {
			return models.PeriodRecord{}, err
		}
		endDate = &parsed
	}

	return models.PeriodRecord{
		StartDate: startDate,
		EndDate:   endDate,
		Notes:     input.Notes,
	}, nil
}

func (handler *Handler) validatePeriodWrite(record models.PeriodRecord) error {
	if err := services.ValidatePeriodRange(record.StartDate, record.EndDate); err != nil {
		return err
	}
	existing, err := handler.repositories.Periods.List()
	if err != nil {
		return errors.New("load existing periods failed")
	}
	return services.CheckPeriodOverlap(existing, record)
}
