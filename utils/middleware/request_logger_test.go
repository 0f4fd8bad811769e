package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSecurityTagsRequests(t *testing.T) {
	app := fiber.New()
	SetupSecurity(app, SecurityConfig{AllowedOrigins: "*"})

	app.Get("/id", func(c *fiber.Ctx) error {
		rlog := utils.FromContext(c.UserContext())
		return c.SendString(rlog.Data["requestID"].(string))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/id", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	requestID := resp.Header.Get(fiber.HeaderXRequestID)
	assert.Len(t, requestID, 36)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, requestID, string(body))
}

func TestSetupSecurityAnswersPreflight(t *testing.T) {
	app := fiber.New()
	SetupSecurity(app, SecurityConfig{AllowedOrigins: "*"})
	app.Put("/api/eventos/1", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(fiber.MethodOptions, "/api/eventos/1", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodPut)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowMethods), "PUT")
}
