package common

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/utils/auth"
	"github.com/portal-eventos/portal-api/utils/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMessages = Messages{NotFound: "Evento não encontrado", Conflict: "Duplicado", Failure: "Erro ao salvar"}

func errorApp(err error) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return HandleError(c, err, testMessages)
	})
	return app
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{database.ErrNotFound, fiber.StatusNotFound, "Evento não encontrado"},
		{fmt.Errorf("%w: email", database.ErrConflict), fiber.StatusConflict, "Duplicado"},
		{query.ErrNoFieldsProvided, fiber.StatusBadRequest, MsgNoFieldsUpdate},
		{&query.FieldError{Field: "data", Message: "deve ser uma data ISO-8601"}, fiber.StatusBadRequest, "campo 'data' deve ser uma data ISO-8601"},
		{auth.ErrPasswordTooLong, fiber.StatusBadRequest, MsgPasswordLong},
		{fmt.Errorf("connection reset"), fiber.StatusInternalServerError, "Erro ao salvar"},
	}

	for _, tc := range cases {
		resp, err := errorApp(tc.err).Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, tc.body, body["error"])
	}
}

func TestParseID(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, ok := ParseID(c, "id")
		if !ok {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.SendString(fmt.Sprint(id))
	})

	for path, want := range map[string]int{"/12": 200, "/abc": 400, "/0": 400, "/-3": 400} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

func TestDecodePayloadKeepsNulls(t *testing.T) {
	app := fiber.New()
	app.Put("/", func(c *fiber.Ctx) error {
		payload, err := DecodePayload(c)
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		value, present := payload["local"]
		return c.SendString(fmt.Sprintf("%v %v", present, value == nil))
	})

	req := httptest.NewRequest(fiber.MethodPut, "/", strings.NewReader(`{"local":null}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "true true", string(body))
}

func TestNilIfBlank(t *testing.T) {
	blank, value := "  ", "Auditório"
	assert.Nil(t, NilIfBlank(nil))
	assert.Nil(t, NilIfBlank(&blank))
	assert.Equal(t, &value, NilIfBlank(&value))
}

func TestHashPasswordAssignment(t *testing.T) {
	assignments := []query.Assignment{{Column: "nome", Value: "Ana"}, {Column: "senha", Value: "segredo"}}

	err := HashPasswordAssignment(assignments, "senha", func(s string) (string, error) { return "hash:" + s, nil })
	require.NoError(t, err)

	assert.Equal(t, "Ana", assignments[0].Value)
	assert.Equal(t, "hash:segredo", assignments[1].Value)
}

func TestHashPasswordAssignmentTooLong(t *testing.T) {
	assignments := []query.Assignment{{Column: "senha", Value: strings.Repeat("a", 80)}}

	err := HashPasswordAssignment(assignments, "senha", auth.BcryptHasher{Cost: 4}.Hash)

	var fieldErr *query.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "campo 'senha' deve ter no máximo 72 bytes", fieldErr.Error())
}
