package professor

import (
	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/handlers/common"
	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/services"
	"github.com/portal-eventos/portal-api/utils/response"
	"github.com/portal-eventos/portal-api/utils/validation"
)

var messages = common.Messages{
	NotFound: "Professor não encontrado",
	Conflict: "Email já cadastrado",
}

// ProfessorHandler handles coordinating professor requests
type ProfessorHandler struct {
	professors database.ProfessorRepository
	accounts   *services.AccountService
	validator  *validation.Validator
}

// NewProfessorHandler creates a new professor handler
func NewProfessorHandler(professors database.ProfessorRepository, accounts *services.AccountService) *ProfessorHandler {
	return &ProfessorHandler{
		professors: professors,
		accounts:   accounts,
		validator:  validation.NewValidator(),
	}
}

// CreateProfessorRequest represents the request body for creating a professor
type CreateProfessorRequest struct {
	Name     string `json:"nome" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"senha" validate:"required,maxbytes=72"`
	Course   string `json:"curso" validate:"required,notblank"`
}

// ListProfessors handles GET /api/professores
func (h *ProfessorHandler) ListProfessors(c *fiber.Ctx) error {
	professors, err := h.professors.List(c.UserContext())
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao buscar professores"))
	}
	return response.Success(c, professors)
}

// GetProfessor handles GET /api/professores/:id
func (h *ProfessorHandler) GetProfessor(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	professor, err := h.professors.Get(c.UserContext(), id)
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao buscar professor"))
	}
	return response.Success(c, professor)
}

// CreateProfessor handles POST /api/professores
func (h *ProfessorHandler) CreateProfessor(c *fiber.Ctx) error {
	var req CreateProfessorRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FirstError(err))
	}

	failure := messages.WithFailure("Erro ao criar professor")

	hashed, err := h.accounts.HashPassword(req.Password)
	if err != nil {
		return common.HandleError(c, err, failure)
	}

	professor := model.Professor{
		Name:     validation.SanitizeString(req.Name),
		Email:    validation.SanitizeString(req.Email),
		Password: hashed,
		Course:   validation.SanitizeString(req.Course),
	}

	if err := h.professors.Create(c.UserContext(), &professor); err != nil {
		return common.HandleError(c, err, failure)
	}

	return response.Created(c, professor)
}

// UpdateProfessor handles PUT /api/professores/:id
func (h *ProfessorHandler) UpdateProfessor(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	payload, err := common.DecodePayload(c)
	if err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	failure := messages.WithFailure("Erro ao atualizar professor")

	assignments, err := database.ProfessorTable.Assignments(payload)
	if err != nil {
		return common.HandleError(c, err, failure)
	}
	if err := common.HashPasswordAssignment(assignments, "senha", h.accounts.HashPassword); err != nil {
		return common.HandleError(c, err, failure)
	}

	professor, err := h.professors.Update(c.UserContext(), id, assignments)
	if err != nil {
		return common.HandleError(c, err, failure)
	}

	return response.Success(c, professor)
}

// DeleteProfessor handles DELETE /api/professores/:id. The professor's projects go
// with it.
func (h *ProfessorHandler) DeleteProfessor(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	affected, err := h.professors.Delete(c.UserContext(), id)
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao deletar professor"))
	}

	return common.Deleted(c, affected, "Professor deletado com sucesso")
}
