package model

import (
	"time"
)

// Subject is a course subject (table materia)
type Subject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:nome;size:255;uniqueIndex;not null" json:"nome"`
	Description *string   `gorm:"column:descricao;type:text" json:"descricao"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relationships
	ResearchProjects  []ResearchProject  `gorm:"foreignKey:SubjectID;constraint:OnDelete:SET NULL" json:"-"`
	ExtensionProjects []ExtensionProject `gorm:"foreignKey:SubjectID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Subject) TableName() string { return "materia" }
