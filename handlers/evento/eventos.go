package evento

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/handlers/common"
	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/utils/query"
	"github.com/portal-eventos/portal-api/utils/response"
	"github.com/portal-eventos/portal-api/utils/validation"
)

const (
	tagsKey        = "odsAssociadas"
	attachmentsKey = "anexos"

	minTag = 1
	maxTag = 17
)

var messages = common.Messages{NotFound: "Evento não encontrado"}

// EventHandler handles event-related requests
type EventHandler struct {
	events    database.EventRepository
	validator *validation.Validator
}

// NewEventHandler creates a new event handler
func NewEventHandler(events database.EventRepository) *EventHandler {
	return &EventHandler{
		events:    events,
		validator: validation.NewValidator(),
	}
}

// CreateEventRequest represents the request body for creating an event
type CreateEventRequest struct {
	Title       string   `json:"titulo" validate:"required,notblank"`
	Date        string   `json:"data" validate:"required"`
	Responsible string   `json:"responsavel" validate:"required,notblank"`
	Status      string   `json:"status"`
	Location    *string  `json:"local"`
	Course      string   `json:"curso"`
	EventType   string   `json:"tipoEvento" validate:"required,notblank"`
	Modality    string   `json:"modalidade" validate:"required,notblank"`
	Description *string  `json:"descricao"`
	Image       *string  `json:"imagem"`
	Document    *string  `json:"documento"`
	Link        *string  `json:"link"`
	Tags        []int    `json:"odsAssociadas" validate:"dive,gte=1,lte=17"`
	Attachments []string `json:"anexos" validate:"dive,required,notblank"`
}

// ListEvents handles GET /api/eventos
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	events, err := h.events.List(c.UserContext())
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao buscar eventos"))
	}
	return response.Success(c, events)
}

// GetEvent handles GET /api/eventos/:id
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	event, err := h.events.Get(c.UserContext(), id)
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao buscar evento"))
	}
	return response.Success(c, event)
}

// CreateEvent handles POST /api/eventos
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FirstError(err))
	}

	date, err := query.ParseTime(req.Date)
	if err != nil {
		return response.BadRequest(c, "campo 'data' deve ser uma data ISO-8601")
	}

	event := model.Event{
		Title:       validation.SanitizeString(req.Title),
		Date:        date,
		Responsible: validation.SanitizeString(req.Responsible),
		Status:      orDefault(req.Status, model.DefaultEventStatus),
		Location:    common.NilIfBlank(req.Location),
		Course:      orDefault(req.Course, model.DefaultEventCourse),
		EventType:   validation.SanitizeString(req.EventType),
		Modality:    validation.SanitizeString(req.Modality),
		Description: common.NilIfBlank(req.Description),
		Image:       common.NilIfBlank(req.Image),
		Document:    common.NilIfBlank(req.Document),
		Link:        common.NilIfBlank(req.Link),
	}
	for _, number := range uniqueInts(req.Tags) {
		event.Tags = append(event.Tags, model.EventTag{Number: number})
	}
	for _, name := range req.Attachments {
		event.Attachments = append(event.Attachments, model.Attachment{Name: name})
	}

	if err := h.events.Create(c.UserContext(), &event); err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao criar evento"))
	}

	return response.Created(c, event)
}

// UpdateEvent handles PUT /api/eventos/:id. odsAssociadas and anexos, when present,
// replace the stored sets; null clears them.
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	payload, err := common.DecodePayload(c)
	if err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	failure := messages.WithFailure("Erro ao atualizar evento")

	update, err := eventUpdate(payload)
	if err != nil {
		return common.HandleError(c, err, failure)
	}

	event, err := h.events.Update(c.UserContext(), id, update)
	if err != nil {
		return common.HandleError(c, err, failure)
	}

	return response.Success(c, event)
}

// DeleteEvent handles DELETE /api/eventos/:id
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	affected, err := h.events.Delete(c.UserContext(), id)
	if err != nil {
		return common.HandleError(c, err, messages.WithFailure("Erro ao deletar evento"))
	}

	return common.Deleted(c, affected, "Evento deletado com sucesso")
}

func eventUpdate(payload map[string]interface{}) (database.EventUpdate, error) {
	var update database.EventUpdate

	tags, err := tagSet(payload)
	if err != nil {
		return update, err
	}
	attachments, err := attachmentSet(payload)
	if err != nil {
		return update, err
	}

	fields, err := database.EventTable.Assignments(payload)
	if err != nil && !(errors.Is(err, query.ErrNoFieldsProvided) && (tags != nil || attachments != nil)) {
		return update, err
	}

	update.Fields = fields
	update.Tags = tags
	update.Attachments = attachments
	return update, nil
}

// tagSet reads odsAssociadas as numbers or as {odsNumero} objects, the shape the
// event is returned in.
func tagSet(payload map[string]interface{}) (*[]int, error) {
	raw, present := payload[tagsKey]
	if !present {
		return nil, nil
	}

	numbers := []int{}
	if raw == nil {
		return &numbers, nil
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, &query.FieldError{Field: tagsKey, Message: "deve ser uma lista"}
	}

	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			item = obj["odsNumero"]
		}
		n, ok := item.(float64)
		if !ok || n != math.Trunc(n) || n < minTag || n > maxTag {
			return nil, &query.FieldError{Field: tagsKey, Message: "deve conter números de 1 a 17"}
		}
		numbers = append(numbers, int(n))
	}

	numbers = uniqueInts(numbers)
	return &numbers, nil
}

// attachmentSet reads anexos as names or as {nome} objects.
func attachmentSet(payload map[string]interface{}) (*[]string, error) {
	raw, present := payload[attachmentsKey]
	if !present {
		return nil, nil
	}

	names := []string{}
	if raw == nil {
		return &names, nil
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, &query.FieldError{Field: attachmentsKey, Message: "deve ser uma lista"}
	}

	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			item = obj["nome"]
		}
		name, ok := item.(string)
		if !ok || validation.SanitizeString(name) == "" {
			return nil, &query.FieldError{Field: attachmentsKey, Message: "deve conter nomes de arquivo"}
		}
		names = append(names, name)
	}

	return &names, nil
}

func uniqueInts(values []int) []int {
	seen := make(map[int]bool, len(values))
	unique := make([]int, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		unique = append(unique, v)
	}
	return unique
}

func orDefault(value, fallback string) string {
	if value = validation.SanitizeString(value); value == "" {
		return fallback
	}
	return value
}
