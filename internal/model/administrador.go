package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RolAdministrador = "administrador"
	RolEstudiante    = "estudiante"
)

// Administrador is a back-office account. There is no self-registration:
// rows are inserted by cmd/seedadmin.
type Administrador struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Nombre    string    `gorm:"not null" json:"nombre"`
	Apellido  string    `gorm:"not null" json:"apellido"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Celular   *string   `json:"celular"`
	Direccion *string   `json:"direccion"`
	Password  string    `gorm:"not null" json:"-"`
	Estado    bool      `gorm:"not null;default:true" json:"estado"`
	// Token holds the pending password-recovery token; nil when none was requested.
	Token        *string   `gorm:"index" json:"-"`
	ConfirmEmail bool      `gorm:"not null;default:false" json:"confirm_email"`
	Rol          string    `gorm:"type:varchar(20);not null;default:'administrador'" json:"rol"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Administrador) TableName() string { return "administradores" }
