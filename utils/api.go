package utils

import (
	fiber "github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/database"
)

// MakeHTTPHandleFunc adapts a store-aware handler to a fiber.Handler. Any error the
// handler returns is logged and answered with a generic 500.
func MakeHTTPHandleFunc(handler func(c *fiber.Ctx, store database.Storage) error, store database.Storage) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if err := handler(c, store); err != nil {
			FromContext(c.UserContext()).WithError(err).Error("handler failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro interno do servidor"})
		}
		return nil
	}
}
