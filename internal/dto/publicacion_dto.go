package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CrearPublicacionRequest is bound from the multipart form; the image travels
// separately as ImagenUpload.
type CrearPublicacionRequest struct {
	Titulo      string `form:"titulo"      validate:"max=150"`
	Descripcion string `form:"descripcion" validate:"max=2000"`
	Categoria   string `form:"categoria"`
	Precio      string `form:"precio"`
}

// ImagenUpload is an uploaded file handed from the handler to the service.
type ImagenUpload struct {
	Nombre  string
	Tamanio int64
	Archivo io.Reader
}

type ActualizarPublicacionRequest struct {
	Titulo      string `json:"titulo"      validate:"max=150"`
	Descripcion string `json:"descripcion" validate:"max=2000"`
	Categoria   string `json:"categoria"`
}

type AutorResumen struct {
	ID       uuid.UUID `json:"id"`
	Nombre   string    `json:"nombre"`
	Apellido string    `json:"apellido"`
	Email    string    `json:"email"`
	Celular  string    `json:"celular"`
}

type CategoriaResumen struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
}

type PublicacionResponse struct {
	ID          uuid.UUID         `json:"id"`
	Titulo      string            `json:"titulo"`
	Descripcion string            `json:"descripcion"`
	Imagen      string            `json:"imagen"`
	Precio      decimal.Decimal   `json:"precio"`
	Estado      bool              `json:"estado"`
	Disponible  bool              `json:"disponible"`
	AutorID     uuid.UUID         `json:"autor_id"`
	CategoriaID uuid.UUID         `json:"categoria_id"`
	Autor       *AutorResumen     `json:"autor,omitempty"`
	Categoria   *CategoriaResumen `json:"categoria,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type PublicacionMensajeResponse struct {
	Msg         string              `json:"msg"`
	Publicacion PublicacionResponse `json:"publicacion"`
}
