package model

import (
	"time"
)

// ProjectHeader holds the columns shared by research and extension projects
type ProjectHeader struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"column:titulo;not null" json:"titulo"`
	ThematicArea string    `gorm:"column:area_tematica;not null" json:"areaTematica"`
	Description  string    `gorm:"column:descricao;type:text;not null" json:"descricao"`
	OccursAt     time.Time `gorm:"column:momento_ocorre;not null" json:"momentoOcorre"`
	Image        *string   `gorm:"column:imagem;type:text" json:"imagem"`
	ProfessorID  uint      `gorm:"column:professor_coordenador_id;not null;index" json:"professorCoordenadorId"`
	SubjectID    *uint     `gorm:"column:materia_id;index" json:"materiaId"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ResearchProject is a research project (table projeto_pesquisa)
type ResearchProject struct {
	ProjectHeader
	ResearchProblem string `gorm:"column:problema_pesquisa;type:text;not null" json:"problemaPesquisa"`
	Methodology     string `gorm:"column:metodologia;type:text;not null" json:"metodologia"`
	ExpectedResults string `gorm:"column:resultados_esperados;type:text;not null" json:"resultadosEsperados"`
}

func (ResearchProject) TableName() string { return "projeto_pesquisa" }

// ExtensionProject is a community extension project (table projeto_extensao)
type ExtensionProject struct {
	ProjectHeader
	TargetAudience    string `gorm:"column:tipo_pessoas_procuram;type:text;not null" json:"tipoPessoasProcuram"`
	CommunityInvolved string `gorm:"column:comunidade_envolvida;type:text;not null" json:"comunidadeEnvolvida"`
}

func (ExtensionProject) TableName() string { return "projeto_extensao" }

// Project is implemented by both project kinds
type Project interface {
	ResearchProject | ExtensionProject
}

// Header gives access to the shared columns
func (p *ResearchProject) Header() *ProjectHeader { return &p.ProjectHeader }

// Header gives access to the shared columns
func (p *ExtensionProject) Header() *ProjectHeader { return &p.ProjectHeader }
