package model

import (
	"time"
)

// Professor is a coordinating professor (table professor_coordenador)
type Professor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:nome;not null" json:"nome"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:senha;not null" json:"-"`
	Course    string    `gorm:"column:curso;not null" json:"curso"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	ResearchProjects  []ResearchProject  `gorm:"foreignKey:ProfessorID;constraint:OnDelete:CASCADE" json:"-"`
	ExtensionProjects []ExtensionProject `gorm:"foreignKey:ProfessorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Professor) TableName() string { return "professor_coordenador" }
