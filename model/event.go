package model

import (
	"time"
)

const (
	// DefaultEventStatus is set when an event is created without a status
	DefaultEventStatus = "Pendente"
	// DefaultEventCourse is set when an event is created without a course
	DefaultEventCourse = "Análise e Desenvolvimento de Sistemas"
)

// Event is a department event (table evento)
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"column:titulo;not null" json:"titulo"`
	Date        time.Time `gorm:"column:data;not null;index" json:"data"`
	Responsible string    `gorm:"column:responsavel;not null" json:"responsavel"`
	Status      string    `gorm:"column:status;not null;default:Pendente" json:"status"`
	Location    *string   `gorm:"column:local" json:"local"`
	Course      string    `gorm:"column:curso;not null" json:"curso"`
	EventType   string    `gorm:"column:tipo_evento;not null" json:"tipoEvento"`
	Modality    string    `gorm:"column:modalidade;not null" json:"modalidade"`
	Description *string   `gorm:"column:descricao;type:text" json:"descricao"`
	Image       *string   `gorm:"column:imagem;type:text" json:"imagem"`
	Document    *string   `gorm:"column:documento;type:text" json:"documento"`
	Link        *string   `gorm:"column:link" json:"link"`
	CreatedAt   time.Time `gorm:"column:criado_em;autoCreateTime" json:"criadoEm"`
	UpdatedAt   time.Time `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizadoEm"`

	// Relationships
	Tags        []EventTag   `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"odsAssociadas"`
	Attachments []Attachment `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"anexos"`
	Comments    []Comment    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Event) TableName() string { return "evento" }

// EventTag links an event to a sustainable development goal code (table ods_evento)
type EventTag struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EventID uint `gorm:"column:evento_id;not null;index" json:"eventoId"`
	Number  int  `gorm:"column:ods_numero;not null" json:"odsNumero"`
}

func (EventTag) TableName() string { return "ods_evento" }

// Attachment is a named file reference of an event (table anexo_evento)
type Attachment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	EventID uint   `gorm:"column:evento_id;not null;index" json:"eventoId"`
	Name    string `gorm:"column:nome;not null" json:"nome"`
}

func (Attachment) TableName() string { return "anexo_evento" }

// TagNumbers returns the codes of the event's tags
func (e *Event) TagNumbers() []int {
	numbers := make([]int, 0, len(e.Tags))
	for _, tag := range e.Tags {
		numbers = append(numbers, tag.Number)
	}
	return numbers
}
