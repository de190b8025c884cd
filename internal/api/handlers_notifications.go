package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) ListNotifications(c *fiber.Ctx) error {
	notifications, err := handler.repositories.Notifications.List()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(notifications)
}

func (handler *Handler) ResyncNotifications(c *fiber.Ctx) error {
	if err := handler.resyncNotifications(c); err != nil {
		return internalError(c)
	}
	notifications, err := handler.repositories.Notifications.List()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(notifications)
}

func (handler *Handler) CancelAllNotifications(c *fiber.Ctx) error {
	if err := handler.scheduler.CancelAll(c.UserContext()); err != nil {
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// resyncNotifications re-derives the full notification set from current
// history. Deterministic ids make repeated calls replace rather than pile up.
func (handler *Handler) resyncNotifications(c *fiber.Ctx) error {
	user := handler.currentUser(c)
	if user == nil {
		return nil
	}

	periods, err := handler.repositories.Periods.List()
	if err != nil {
		return err
	}
	reminders, err := handler.repositories.Reminders.List()
	if err != nil {
		return err
	}
	return handler.scheduler.Resync(c.UserContext(), periods, reminders, *user)
}
