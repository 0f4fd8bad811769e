package comentario

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/handlers/common"
	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/utils/response"
	"github.com/portal-eventos/portal-api/utils/validation"
)

var messages = common.Messages{NotFound: "Comentário não encontrado"}

// CommentHandler handles the comments nested under an event
type CommentHandler struct {
	comments  database.CommentRepository
	users     database.UserRepository
	validator *validation.Validator
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(comments database.CommentRepository, users database.UserRepository) *CommentHandler {
	return &CommentHandler{
		comments:  comments,
		users:     users,
		validator: validation.NewValidator(),
	}
}

// CreateCommentRequest represents the request body for creating a comment. The author
// name is taken from usuarioId when autor is omitted.
type CreateCommentRequest struct {
	Content string `json:"conteudo" validate:"required,notblank"`
	Author  string `json:"autor" validate:"required_without=UserID"`
	UserID  *uint  `json:"usuarioId" validate:"omitempty,gt=0"`
}

func ids(c *fiber.Ctx) (eventID, commentID int64, ok bool) {
	if eventID, ok = common.ParseID(c, "eventoId"); !ok {
		return 0, 0, false
	}
	if c.Params("comentarioId") == "" {
		return eventID, 0, true
	}
	commentID, ok = common.ParseID(c, "comentarioId")
	return eventID, commentID, ok
}

// ListComments handles GET /api/eventos/:eventoId/comentarios
func (h *CommentHandler) ListComments(c *fiber.Ctx) error {
	eventID, _, ok := ids(c)
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	comments, err := h.comments.ListByEvent(c.UserContext(), eventID)
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao buscar comentários"))
	}
	return response.Success(c, comments)
}

// CreateComment handles POST /api/eventos/:eventoId/comentarios
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	eventID, _, ok := ids(c)
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FirstError(err))
	}

	failure := messages.WithFailure("Erro ao criar comentário")

	author := validation.SanitizeString(req.Author)
	if author == "" && req.UserID == nil {
		return response.BadRequest(c, "campo 'autor' é obrigatório")
	}
	if req.UserID != nil {
		user, err := h.users.Get(c.UserContext(), int64(*req.UserID))
		if errors.Is(err, database.ErrNotFound) {
			return response.BadRequest(c, "campo 'usuarioId' não corresponde a um usuário")
		}
		if err != nil {
			return common.HandleError(c, err, failure)
		}
		if author == "" {
			author = user.Name
		}
	}

	comment := model.Comment{
		EventID: uint(eventID),
		UserID:  req.UserID,
		Author:  author,
		Content: req.Content,
	}

	if err := h.comments.Create(c.UserContext(), &comment); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Evento não encontrado")
		}
		return common.HandleError(c, err, failure)
	}

	return response.Created(c, comment)
}

// UpdateComment handles PUT /api/eventos/:eventoId/comentarios/:comentarioId
func (h *CommentHandler) UpdateComment(c *fiber.Ctx) error {
	eventID, commentID, ok := ids(c)
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	payload, err := common.DecodePayload(c)
	if err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	failure := messages.WithFailure("Erro ao atualizar comentário")

	assignments, err := database.CommentTable.Assignments(payload)
	if err != nil {
		return common.HandleError(c, err, failure)
	}

	comment, err := h.comments.Update(c.UserContext(), eventID, commentID, assignments)
	if err != nil {
		return common.HandleError(c, err, failure)
	}

	return response.Success(c, comment)
}

// DeleteComment handles DELETE /api/eventos/:eventoId/comentarios/:comentarioId
func (h *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	eventID, commentID, ok := ids(c)
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	affected, err := h.comments.Delete(c.UserContext(), eventID, commentID)
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao deletar comentário"))
	}

	return common.Deleted(c, affected, "Comentário deletado com sucesso")
}
