package dto

import (
	"time"

	"github.com/google/uuid"
)

type CategoriaRequest struct {
	Nombre      string `json:"nombre"      validate:"max=100"`
	Descripcion string `json:"descripcion" validate:"max=500"`
}

type CategoriaResponse struct {
	ID              uuid.UUID `json:"id"`
	Nombre          string    `json:"nombre"`
	Descripcion     string    `json:"descripcion"`
	Estado          bool      `json:"estado"`
	AdministradorID uuid.UUID `json:"administrador_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CategoriaMensajeResponse struct {
	Msg       string            `json:"msg"`
	Categoria CategoriaResponse `json:"categoria"`
}
