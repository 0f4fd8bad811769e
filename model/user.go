package model

import (
	"time"
)

// User is a portal account (table usuario)
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:nome;not null" json:"nome"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:senha;not null" json:"-"` // never exposed
	Role      string    `gorm:"column:cargo;not null" json:"cargo"`
	CreatedAt time.Time `gorm:"column:criado_em;autoCreateTime" json:"criadoEm"`
	UpdatedAt time.Time `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizadoEm"`

	// Relationships
	Comments []Comment `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (User) TableName() string { return "usuario" }

// UserProfile is what a successful login returns
type UserProfile struct {
	ID    uint   `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  string `json:"cargo"`
}

// Profile returns the public part of the user
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
