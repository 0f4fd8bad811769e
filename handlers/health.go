package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/utils"
	"github.com/portal-eventos/portal-api/utils/response"
)

// HandleCheckHealth reports whether the storage answers
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		utils.FromContext(c.UserContext()).WithError(err).Warn("health check failed")
		return response.ServiceUnavailable(c, "")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ping answers with the configured message
func Ping(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return response.Message(c, message)
	}
}

// HandleDemo answers a fixed acknowledgement
func HandleDemo(c *fiber.Ctx) error {
	return response.Message(c, "Demo endpoint working")
}
