package materia

import (
	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/handlers/common"
	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/utils/response"
	"github.com/portal-eventos/portal-api/utils/validation"
)

var messages = common.Messages{
	NotFound: "Matéria não encontrada",
	Conflict: "Matéria com esse nome já existe",
}

// SubjectHandler handles subject requests
type SubjectHandler struct {
	subjects  database.SubjectRepository
	validator *validation.Validator
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(subjects database.SubjectRepository) *SubjectHandler {
	return &SubjectHandler{
		subjects:  subjects,
		validator: validation.NewValidator(),
	}
}

// CreateSubjectRequest represents the request body for creating a subject
type CreateSubjectRequest struct {
	Name        string  `json:"nome" validate:"required,notblank,max=255"`
	Description *string `json:"descricao"`
}

// ListSubjects handles GET /api/materias
func (h *SubjectHandler) ListSubjects(c *fiber.Ctx) error {
	subjects, err := h.subjects.List(c.UserContext())
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao buscar matérias"))
	}
	return response.Success(c, subjects)
}

// GetSubject handles GET /api/materias/:id
func (h *SubjectHandler) GetSubject(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	subject, err := h.subjects.Get(c.UserContext(), id)
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao buscar matéria"))
	}
	return response.Success(c, subject)
}

// CreateSubject handles POST /api/materias
func (h *SubjectHandler) CreateSubject(c *fiber.Ctx) error {
	var req CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FirstError(err))
	}

	subject := model.Subject{
		Name:        validation.SanitizeString(req.Name),
		Description: common.NilIfBlank(req.Description),
	}

	if err := h.subjects.Create(c.UserContext(), &subject); err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao criar matéria"))
	}

	return response.Created(c, subject)
}

// UpdateSubject handles PUT /api/materias/:id
func (h *SubjectHandler) UpdateSubject(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	payload, err := common.DecodePayload(c)
	if err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	failure := messages.WithFailure("Erro ao atualizar matéria")

	assignments, err := database.SubjectTable.Assignments(payload)
	if err != nil {
		return common.HandleError(c, err, failure)
	}

	subject, err := h.subjects.Update(c.UserContext(), id, assignments)
	if err != nil {
		return common.HandleError(c, err, failure)
	}

	return response.Success(c, subject)
}

// DeleteSubject handles DELETE /api/materias/:id. Projects that referenced the
// subject keep existing without one.
func (h *SubjectHandler) DeleteSubject(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	affected, err := h.subjects.Delete(c.UserContext(), id)
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao deletar matéria"))
	}

	return common.Deleted(c, affected, "Matéria deletada com sucesso")
}
