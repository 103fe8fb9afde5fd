package model

import (
	"time"

	"github.com/google/uuid"
)

// Estudiante is a self-registered marketplace user. Login is refused until
// ConfirmEmail is true and while Estado is false.
type Estudiante struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Nombre       string    `gorm:"not null" json:"nombre"`
	Apellido     string    `gorm:"not null" json:"apellido"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Direccion    string    `gorm:"not null" json:"direccion"`
	Password     string    `gorm:"not null" json:"-"`
	Celular      string    `gorm:"type:varchar(10);not null" json:"celular"`
	Estado       bool      `gorm:"not null;default:true" json:"estado"`
	Rol          string    `gorm:"type:varchar(20);not null;default:'estudiante'" json:"rol"`
	ConfirmEmail bool      `gorm:"not null;default:false" json:"confirm_email"`
	Token        *string   `gorm:"index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Estudiante) TableName() string { return "estudiantes" }
