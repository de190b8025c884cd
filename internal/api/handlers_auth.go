package api

import (
	"log"
	"strings"

	"github.com/ferngrove/mira/internal/models"
	"github.com/ferngrove/mira/internal/security"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type setupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) SetupStatus(c *fiber.Ctx) error {
	count, err := handler.repositories.Users.Count()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"needs_setup": count == 0})
}

// Setup creates the single local profile on first run and hands back a
// one-time recovery code. Rejected once a profile exists.
func (handler *Handler) Setup(c *fiber.Ctx) error {
	count, err := handler.repositories.Users.Count()
	if err != nil {
		return internalError(c)
	}
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "profile already exists"})
	}

	input := setupInput{}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || len(input.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and a password of at least 8 characters are required"})
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c)
	}

	recoveryCode, err := security.NewRecoveryCode()
	if err != nil {
		return internalError(c)
	}
	recoveryHash, err := bcrypt.GenerateFromPassword([]byte(recoveryCode), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c)
	}

	user := models.User{
		Email:                  email,
		PasswordHash:           string(passwordHash),
		RecoveryCodeHash:       string(recoveryHash),
		PeriodRemindersEnabled: true,
		NotifyTime:             models.DefaultNotifyTime,
		AdherenceRetention:     models.AdherenceRetain,
	}
	if err := handler.repositories.Users.Create(&user); err != nil {
		return internalError(c)
	}

	if err := handler.setAuthCookie(c, &user); err != nil {
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"email":         user.Email,
		"recovery_code": recoveryCode,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := loginInput{}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, found, err := handler.repositories.Users.FindByEmail(email)
	if err != nil {
		return internalError(c)
	}
	if !found || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	if err := handler.setAuthCookie(c, &user); err != nil {
		log.Printf("auth: set cookie failed: %v", err)
		return internalError(c)
	}
	return c.JSON(fiber.Map{"email": user.Email})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user := handler.currentUser(c)

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	if len(input.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "a password of at least 8 characters is required"})
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c)
	}
	user.PasswordHash = string(passwordHash)
	if err := handler.repositories.Users.Save(user); err != nil {
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type recoverInput struct {
	Email        string `json:"email"`
	RecoveryCode string `json:"recovery_code"`
	NewPassword  string `json:"new_password"`
}

// Recover resets the password against the one-time recovery code and rotates
// the code, so a leaked code cannot be replayed.
func (handler *Handler) Recover(c *fiber.Ctx) error {
	input := recoverInput{}
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	if len(input.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "a password of at least 8 characters is required"})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, found, err := handler.repositories.Users.FindByEmail(email)
	if err != nil {
		return internalError(c)
	}
	if !found || user.RecoveryCodeHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.RecoveryCodeHash), []byte(strings.TrimSpace(input.RecoveryCode))) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid recovery code"})
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c)
	}
	nextCode, err := security.NewRecoveryCode()
	if err != nil {
		return internalError(c)
	}
	nextHash, err := bcrypt.GenerateFromPassword([]byte(nextCode), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c)
	}

	user.PasswordHash = string(passwordHash)
	user.RecoveryCodeHash = string(nextHash)
	if err := handler.repositories.Users.Save(&user); err != nil {
		return internalError(c)
	}

	if err := handler.setAuthCookie(c, &user); err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{
		"email":         user.Email,
		"recovery_code": nextCode,
	})
}
