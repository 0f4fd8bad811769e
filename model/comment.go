package model

import (
	"time"
)

// Comment belongs to exactly one event (table comentario_evento)
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"column:evento_id;not null;index" json:"eventoId"`
	UserID    *uint     `gorm:"column:usuario_id;index" json:"usuarioId"`
	Author    string    `gorm:"column:autor;not null" json:"autor"`
	Content   string    `gorm:"column:conteudo;type:text;not null" json:"conteudo"`
	CreatedAt time.Time `gorm:"column:criado_em;autoCreateTime;index" json:"criadoEm"`
	UpdatedAt time.Time `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizadoEm"`
}

func (Comment) TableName() string { return "comentario_evento" }
