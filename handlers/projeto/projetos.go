// Package projeto serves research and extension projects. Both kinds share one
// generic handler and differ only in their create request and field map.
package projeto

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/handlers/common"
	"github.com/portal-eventos/portal-api/model"
	"github.com/portal-eventos/portal-api/utils/query"
	"github.com/portal-eventos/portal-api/utils/response"
	"github.com/portal-eventos/portal-api/utils/validation"
)

const (
	msgUnknownProfessor = "campo 'professorCoordenadorId' não corresponde a um professor"
	msgUnknownSubject   = "campo 'materiaId' não corresponde a uma matéria"
)

// HeaderRequest holds the create fields shared by both project kinds
type HeaderRequest struct {
	Title        string  `json:"titulo" validate:"required,notblank"`
	ThematicArea string  `json:"areaTematica" validate:"required,notblank"`
	Description  string  `json:"descricao" validate:"required,notblank"`
	OccursAt     string  `json:"momentoOcorre" validate:"required"`
	Image        *string `json:"imagem"`
	ProfessorID  uint    `json:"professorCoordenadorId" validate:"required,gt=0"`
	SubjectID    *uint   `json:"materiaId" validate:"omitempty,gt=0"`
}

// CreateResearchProjectRequest represents the request body for creating a research project
type CreateResearchProjectRequest struct {
	HeaderRequest
	ResearchProblem string `json:"problemaPesquisa" validate:"required,notblank"`
	Methodology     string `json:"metodologia" validate:"required,notblank"`
	ExpectedResults string `json:"resultadosEsperados" validate:"required,notblank"`
}

// CreateExtensionProjectRequest represents the request body for creating an extension project
type CreateExtensionProjectRequest struct {
	HeaderRequest
	TargetAudience    string `json:"tipoPessoasProcuram" validate:"required,notblank"`
	CommunityInvolved string `json:"comunidadeEnvolvida" validate:"required,notblank"`
}

type createRequest[T model.Project] interface {
	header() *HeaderRequest
	project(header model.ProjectHeader) T
}

func (r *CreateResearchProjectRequest) header() *HeaderRequest { return &r.HeaderRequest }

func (r *CreateResearchProjectRequest) project(header model.ProjectHeader) model.ResearchProject {
	return model.ResearchProject{
		ProjectHeader:   header,
		ResearchProblem: r.ResearchProblem,
		Methodology:     r.Methodology,
		ExpectedResults: r.ExpectedResults,
	}
}

func (r *CreateExtensionProjectRequest) header() *HeaderRequest { return &r.HeaderRequest }

func (r *CreateExtensionProjectRequest) project(header model.ProjectHeader) model.ExtensionProject {
	return model.ExtensionProject{
		ProjectHeader:     header,
		TargetAudience:    r.TargetAudience,
		CommunityInvolved: r.CommunityInvolved,
	}
}

// ProjectHandler handles requests for one project kind
type ProjectHandler[T model.Project] struct {
	projects   database.ProjectRepository[T]
	professors database.ProfessorRepository
	subjects   database.SubjectRepository
	table      query.Table
	label      string
	messages   common.Messages
	newRequest func() createRequest[T]
	validator  *validation.Validator
}

// NewResearchProjectHandler creates the handler for /api/projetos-pesquisa
func NewResearchProjectHandler(projects database.ProjectRepository[model.ResearchProject], professors database.ProfessorRepository, subjects database.SubjectRepository) *ProjectHandler[model.ResearchProject] {
	return &ProjectHandler[model.ResearchProject]{
		projects:   projects,
		professors: professors,
		subjects:   subjects,
		table:      database.ResearchProjectTable,
		label:      "projeto de pesquisa",
		messages:   common.Messages{NotFound: "Projeto de pesquisa não encontrado"},
		newRequest: func() createRequest[model.ResearchProject] { return new(CreateResearchProjectRequest) },
		validator:  validation.NewValidator(),
	}
}

// NewExtensionProjectHandler creates the handler for /api/projetos-extensao
func NewExtensionProjectHandler(projects database.ProjectRepository[model.ExtensionProject], professors database.ProfessorRepository, subjects database.SubjectRepository) *ProjectHandler[model.ExtensionProject] {
	return &ProjectHandler[model.ExtensionProject]{
		projects:   projects,
		professors: professors,
		subjects:   subjects,
		table:      database.ExtensionProjectTable,
		label:      "projeto de extensão",
		messages:   common.Messages{NotFound: "Projeto de extensão não encontrado"},
		newRequest: func() createRequest[model.ExtensionProject] { return new(CreateExtensionProjectRequest) },
		validator:  validation.NewValidator(),
	}
}

func (h *ProjectHandler[T]) failure(op string) common.Messages {
	return h.messages.WithFailure("Erro ao " + op + " " + h.label)
}

// ListProjects handles GET on the collection
func (h *ProjectHandler[T]) ListProjects(c *fiber.Ctx) error {
	projects, err := h.projects.List(c.UserContext())
	if err != nil {
		return common.HandleError(c, err, h.failure("buscar"))
	}
	return response.Success(c, projects)
}

// GetProject handles GET /:id
func (h *ProjectHandler[T]) GetProject(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	project, err := h.projects.Get(c.UserContext(), id)
	if err != nil {
		return common.HandleError(c, err, h.failure("buscar"))
	}
	return response.Success(c, project)
}

// CreateProject handles POST on the collection. The coordinating professor and the
// subject, when given, must exist.
func (h *ProjectHandler[T]) CreateProject(c *fiber.Ctx) error {
	req := h.newRequest()
	if err := c.BodyParser(req); err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FirstError(err))
	}

	hdr := req.header()
	occursAt, err := query.ParseTime(hdr.OccursAt)
	if err != nil {
		return response.BadRequest(c, "campo 'momentoOcorre' deve ser uma data ISO-8601")
	}

	failure := h.failure("criar")
	ctx := c.UserContext()

	if _, err := h.professors.Get(ctx, int64(hdr.ProfessorID)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.BadRequest(c, msgUnknownProfessor)
		}
		return common.HandleError(c, err, failure)
	}
	if hdr.SubjectID != nil {
		if msg, err := h.checkSubject(ctx, int64(*hdr.SubjectID)); msg != "" {
			return response.BadRequest(c, msg)
		} else if err != nil {
			return common.HandleError(c, err, failure)
		}
	}

	project := req.project(model.ProjectHeader{
		Title:        validation.SanitizeString(hdr.Title),
		ThematicArea: validation.SanitizeString(hdr.ThematicArea),
		Description:  hdr.Description,
		OccursAt:     occursAt,
		Image:        common.NilIfBlank(hdr.Image),
		ProfessorID:  hdr.ProfessorID,
		SubjectID:    hdr.SubjectID,
	})

	if err := h.projects.Create(ctx, &project); err != nil {
		return common.HandleError(c, err, failure)
	}

	return response.Created(c, project)
}

// UpdateProject handles PUT /:id
func (h *ProjectHandler[T]) UpdateProject(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	payload, err := common.DecodePayload(c)
	if err != nil {
		return response.BadRequest(c, common.MsgInvalidBody)
	}

	failure := h.failure("atualizar")
	ctx := c.UserContext()

	assignments, err := h.table.Assignments(payload)
	if err != nil {
		return common.HandleError(c, err, failure)
	}

	for _, a := range assignments {
		subjectID, ok := a.Value.(int64)
		if a.Column != "materia_id" || !ok {
			continue
		}
		if msg, err := h.checkSubject(ctx, subjectID); msg != "" {
			return response.BadRequest(c, msg)
		} else if err != nil {
			return common.HandleError(c, err, failure)
		}
	}

	project, err := h.projects.Update(ctx, id, assignments)
	if err != nil {
		return common.HandleError(c, err, failure)
	}

	return response.Success(c, project)
}

// DeleteProject handles DELETE /:id
func (h *ProjectHandler[T]) DeleteProject(c *fiber.Ctx) error {
	id, ok := common.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, common.MsgInvalidID)
	}

	affected, err := h.projects.Delete(c.UserContext(), id)
	if err != nil {
		return common.HandleError(c, err, h.failure("deletar"))
	}

	return common.Deleted(c, affected, strings.ToUpper(h.label[:1])+h.label[1:]+" deletado com sucesso")
}

// checkSubject returns a user-facing message when the subject does not exist
func (h *ProjectHandler[T]) checkSubject(ctx context.Context, id int64) (string, error) {
	if id <= 0 {
		return msgUnknownSubject, nil
	}
	_, err := h.subjects.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return msgUnknownSubject, nil
	}
	return "", err
}
