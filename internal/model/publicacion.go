package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Publicacion is a classified listing owned by an Estudiante.
// Estado soft-disables it; Disponible=false marks it as sold.
type Publicacion struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Titulo      string          `gorm:"index;not null"`
	Descripcion string          `gorm:"not null"`
	AutorID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoriaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Imagen      string          `gorm:"not null"`
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null;check:precio >= 0"`
	Estado      bool            `gorm:"not null;default:true"`
	Disponible  bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Autor     *Estudiante `gorm:"foreignKey:AutorID"`
	Categoria *Categoria  `gorm:"foreignKey:CategoriaID"`
}

func (Publicacion) TableName() string { return "publicaciones" }
