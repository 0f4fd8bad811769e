package usuario

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/handlers/common"
	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/services"
	"github.com/portal-eventos/portal-api/utils"
	"github.com/portal-eventos/portal-api/utils/middleware"
	"github.com/portal-eventos/portal-api/utils/response"
	"github.com/portal-eventos/portal-api/utils/validation"
)

var messages = common.Messages{
	NotFound: "Usuário não encontrado",
	Conflict: "Email já cadastrado",
}

// UserHandler handles login and user-related requests
type UserHandler struct {
	users      database.UserRepository
	accounts   *services.AccountService
	bruteForce *middleware.BruteForceProtection
	validator  *validation.Validator
}

// NewUserHandler creates a new user handler. bruteForce may be nil.
func NewUserHandler(users database.UserRepository, accounts *services.AccountService, bruteForce *middleware.BruteForceProtection) *UserHandler {
	return &UserHandler{
		users:      users,
		accounts:   accounts,
		bruteForce: bruteForce,
		validator:  validation.NewValidator(),
	}
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"senha" validate:"required"`
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name     string `json:"nome" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"senha" validate:"required,maxbytes=72"`
	Role     string `json:"cargo" validate:"required,notblank"`
}

// Login handles POST /api/login
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Email e senha são obrigatórios")
	}

	ctx := c.UserContext()
	log := utils.FromContext(ctx).WithField("email", req.Email)

	profile, err := h.accounts.Login(ctx, req.Email, req.Password)
	switch {
	case err == nil:
		if err := h.bruteForce.RecordSuccessfulAttempt(ctx, c.IP()); err != nil {
			log.WithError(err).Warn("could not clear login attempts")
		}
		return response.Success(c, profile)

	case errors.Is(err, database.ErrNotFound):
		h.recordFailure(c, req.Email)
		return response.Unauthorized(c, "Usuário não encontrado")

	case errors.Is(err, services.ErrInvalidCredentials):
		h.recordFailure(c, req.Email)
		return response.Unauthorized(c, "Senha incorreta")
	}

	log.WithError(err).Error("login failed")
	return response.InternalServerError(c, "Erro ao fazer login")
}

func (h *UserHandler) recordFailure(c *fiber.Ctx, email string) {
	if err := h.bruteForce.RecordFailedAttempt(c.UserContext(), c.IP(), email); err != nil {
		utils.FromContext(c.UserContext()).WithError(err).Warn("could not record failed login")
	}
}

// ListUsers handles GET /api/usuarios
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao buscar usuários"))
	}
	return response.Success(c, users)
}

// CreateUser handles POST /api/usuarios
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FirstError(err))
	}

	hashed, err := h.accounts.HashPassword(req.Password)
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao criar usuário"))
	}

	user := model.User{
		Name:     validation.SanitizeString(req.Name),
		Email:    validation.SanitizeString(req.Email),
		Password: hashed,
		Role:     validation.SanitizeString(req.Role),
	}

	if err := h.users.Create(c.UserContext(), &user); err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao criar usuário"))
	}

	return response.Created(c, user)
}

// UpdateUser handles PUT /api/usuarios/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	payload, err := common.DecodePayload(c)
	if err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	failure := messages.WithFailure("Erro ao atualizar usuário")

	assignments, err := database.UserTable.Assignments(payload)
	if err != nil {
		return common.HandleError(c, err, failure)
	}
	if err := common.HashPasswordAssignment(assignments, "senha", h.accounts.HashPassword); err != nil {
		return common.HandleError(c, err, failure)
	}

	user, err := h.users.Update(c.UserContext(), id, assignments)
	if err != nil {
		return common.HandleError(c, err, failure)
	}

	return response.Success(c, user)
}

// DeleteUser handles DELETE /api/usuarios/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	affected, err := h.users.Delete(c.UserContext(), id)
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao deletar usuário"))
	}

	return common.Deleted(c, affected, "Usuário deletado com sucesso")
}
