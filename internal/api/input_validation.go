package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var errInvalidDate = errors.New("invalid date")

// parseDay parses a YYYY-MM-DD value in the handler's location.
func (handler *Handler) parseDay(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	day, err := time.ParseInLocation("2006-01-02", trimmed, handler.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errInvalidDate, value)
	}
	return day, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func unprocessable(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
