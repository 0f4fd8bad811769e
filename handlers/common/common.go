// Package common holds the request parsing and error mapping shared by the resource handlers.
package common

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/utils"
	"github.com/portal-eventos/portal-api/utils/auth"
	"github.com/portal-eventos/portal-api/utils/query"
	"github.com/portal-eventos/portal-api/utils/response"
)

const (
	MsgInvalidID      = "ID inválido"
	MsgInvalidBody    = "Corpo da requisição inválido"
	MsgNoFieldsUpdate = "Nenhum campo para atualizar"
	MsgPasswordLong   = "campo 'senha' deve ter no máximo 72 bytes"
)

// Messages are the user-facing strings for one resource
type Messages struct {
	NotFound string
	Conflict string
	Failure  string
}

// WithFailure returns a copy of m with the 500 message of one operation
func (m Messages) WithFailure(failure string) Messages {
	m.Failure = failure
	return m
}

// ParseID reads a path parameter as a positive integer id
func ParseID(c *fiber.Ctx, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// DecodePayload parses the JSON body into a key/value map, keeping explicit nulls
func DecodePayload(c *fiber.Ctx) (map[string]interface{}, error) {
	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// HandleError maps a service or storage error onto the HTTP taxonomy. Anything it does
// not recognise is logged and answered with the resource's generic failure message.
func HandleError(c *fiber.Ctx, err error, msgs Messages) error {
	var fieldErr *query.FieldError

	switch {
	case errors.Is(err, database.ErrNotFound):
		return response.NotFound(c, msgs.NotFound)
	case errors.Is(err, database.ErrConflict):
		return response.Conflict(c, msgs.Conflict)
	case errors.Is(err, query.ErrNoFieldsProvided):
		return response.BadRequest(c, MsgNoFieldsUpdate)
	case errors.As(err, &fieldErr):
		return response.BadRequest(c, fieldErr.Error())
	case errors.Is(err, auth.ErrPasswordTooLong):
		return response.BadRequest(c, MsgPasswordLong)
	}

	utils.FromContext(c.UserContext()).WithError(err).WithField("path", c.Path()).Error(msgs.Failure)
	return response.InternalServerError(c, msgs.Failure)
}

// Deleted acknowledges a delete. Zero affected rows still answer 200.
func Deleted(c *fiber.Ctx, affected int64, message string) error {
	if affected == 0 {
		utils.FromContext(c.UserContext()).WithField("path", c.Path()).Debug("delete matched no rows")
	}
	return response.Message(c, message)
}

// NilIfBlank turns an absent or blank optional string into nil
func NilIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// HashPasswordAssignment replaces the plain text of a password assignment with its
// stored form.
func HashPasswordAssignment(assignments []query.Assignment, column string, hash func(string) (string, error)) error {
	for i, a := range assignments {
		if a.Column != column {
			continue
		}
		plain, ok := a.Value.(string)
		if !ok {
			continue
		}
		hashed, err := hash(plain)
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return &query.FieldError{Field: a.Column, Message: "deve ter no máximo 72 bytes"}
		}
		if err != nil {
			return err
		}
		assignments[i].Value = hashed
	}
	return nil
}
