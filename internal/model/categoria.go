package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria classifies publicaciones. It is soft-disabled through Estado, never deleted.
type Categoria struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre          string    `gorm:"uniqueIndex;not null"`
	Descripcion     string    `gorm:"not null"`
	Estado          bool      `gorm:"not null;default:true"`
	AdministradorID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Administrador *Administrador `gorm:"foreignKey:AdministradorID"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }
