package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/portal-eventos/portal-api/utils"
	"github.com/sirupsen/logrus"
)

// RequestLogger stores a logger tagged with the request id in the request's user context.
// It must run after the requestid middleware.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		ctx, rlog := utils.ContextWithRequestLogger(c.UserContext(), requestID)
		c.SetUserContext(ctx)

		err := c.Next()

		rlog.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": c.Response().StatusCode(),
		}).Debug("request handled")
		return err
	}
}
