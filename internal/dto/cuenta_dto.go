package dto

import "github.com/google/uuid"

// ─── Request DTOs ────────────────────────────────────────────────────────────
// Required-field checks live in the services so each flow can answer with its
// own message; tags here only bound sizes and formats.

type LoginRequest struct {
	Email    string `json:"email"    validate:"max=254"`
	Password string `json:"password" validate:"max=72"`
}

type RegistroRequest struct {
	Email     string `json:"email"     validate:"omitempty,email,max=254"`
	Password  string `json:"password"  validate:"max=72"`
	Celular   string `json:"celular"`
	Direccion string `json:"direccion" validate:"max=200"`
	Nombre    string `json:"nombre"    validate:"max=100"`
	Apellido  string `json:"apellido"  validate:"max=100"`
}

type RecuperarPasswordRequest struct {
	Email string `json:"email" validate:"max=254"`
}

type NuevoPasswordRequest struct {
	Password        string `json:"password"        validate:"max=72"`
	ConfirmPassword string `json:"confirmpassword" validate:"max=72"`
}

type CambiarPasswordRequest struct {
	PasswordActual  string `json:"passwordActual"  validate:"max=72"`
	NuevaPassword   string `json:"nuevaPassword"   validate:"max=72"`
	RepetirPassword string `json:"repetirPassword" validate:"max=72"`
}

type ActualizarDatosRequest struct {
	Nombre    string `json:"nombre"    validate:"max=100"`
	Apellido  string `json:"apellido"  validate:"max=100"`
	Celular   string `json:"celular"`
	Direccion string `json:"direccion" validate:"max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// MensajeResponse is the generic {"msg": ...} success body.
type MensajeResponse struct {
	Msg string `json:"msg"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Rol       string    `json:"rol"`
	ID        uuid.UUID `json:"id"`
	Nombre    string    `json:"nombre"`
	Apellido  string    `json:"apellido"`
	Email     string    `json:"email"`
	Celular   string    `json:"celular"`
	Direccion string    `json:"direccion,omitempty"`
	Estado    bool      `json:"estado"`
}

// PerfilResponse never carries the password hash or pending token.
type PerfilResponse struct {
	ID           uuid.UUID `json:"id"`
	Nombre       string    `json:"nombre"`
	Apellido     string    `json:"apellido"`
	Email        string    `json:"email"`
	Celular      string    `json:"celular"`
	Direccion    string    `json:"direccion"`
	Estado       bool      `json:"estado"`
	Rol          string    `json:"rol"`
	ConfirmEmail bool      `json:"confirm_email"`
}

type EstadoResponse struct {
	Msg    string `json:"msg"`
	Estado bool   `json:"estado"`
}
