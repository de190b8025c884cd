package api

import (
	"errors"

	"github.com/ferngrove/mira/internal/models"
	"github.com/gofiber/fiber/v2"
)

var errUnauthorized = errors.New("unauthorized")

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	c.Locals(contextUserKey, user)
	return c.Next()
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	tokenValue := c.Cookies(authCookieName)
	if tokenValue == "" {
		return nil, errUnauthorized
	}

	claims, err := handler.parseToken(tokenValue)
	if err != nil {
		return nil, errUnauthorized
	}

	user, found, err := handler.repositories.Users.FindByID(claims.UserID)
	if err != nil || !found {
		return nil, errUnauthorized
	}
	return &user, nil
}

func (handler *Handler) currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(contextUserKey).(*models.User)
	return user
}
