package api

import (
	"github.com/ferngrove/mira/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetCycleOverview(c *fiber.Ctx) error {
	periods, err := handler.repositories.Periods.List()
	if err != nil {
		return internalError(c)
	}

	today := services.DateAtLocation(handler.clock.Now(), handler.location)
	return c.JSON(services.BuildCycleOverview(periods, today))
}

func (handler *Handler) GetFertilitySnapshot(c *fiber.Ctx) error {
	bbtEntries, err := handler.repositories.BBTEntries.List()
	if err != nil {
		return internalError(c)
	}
	mucusEntries, err := handler.repositories.MucusEntries.List()
	if err != nil {
		return internalError(c)
	}

	today := services.DateAtLocation(handler.clock.Now(), handler.location)
	return c.JSON(services.BuildFertilitySnapshot(bbtEntries, mucusEntries, today))
}
