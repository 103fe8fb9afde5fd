package auth

import (
	"dragonya/internal/model"

	"github.com/google/uuid"
)

// Principal is the identity attached to a request after credential verification.
// The set of variants is closed: AdminPrincipal and EstudiantePrincipal.
type Principal interface {
	PrincipalID() uuid.UUID
	Rol() string
	principal()
}

// AdminPrincipal is an authenticated administrator.
type AdminPrincipal struct {
	Administrador *model.Administrador
}

func (p AdminPrincipal) PrincipalID() uuid.UUID { return p.Administrador.ID }
func (p AdminPrincipal) Rol() string            { return model.RolAdministrador }
func (AdminPrincipal) principal()               {}

// EstudiantePrincipal is an authenticated student.
type EstudiantePrincipal struct {
	Estudiante *model.Estudiante
}

func (p EstudiantePrincipal) PrincipalID() uuid.UUID { return p.Estudiante.ID }
func (p EstudiantePrincipal) Rol() string            { return model.RolEstudiante }
func (EstudiantePrincipal) principal()               {}

// EsAdmin reports whether p is an administrator.
func EsAdmin(p Principal) bool {
	_, ok := p.(AdminPrincipal)
	return ok
}

// AdminDe returns the administrator behind p, or nil.
func AdminDe(p Principal) *model.Administrador {
	if a, ok := p.(AdminPrincipal); ok {
		return a.Administrador
	}
	return nil
}

// EstudianteDe returns the student behind p, or nil.
func EstudianteDe(p Principal) *model.Estudiante {
	if e, ok := p.(EstudiantePrincipal); ok {
		return e.Estudiante
	}
	return nil
}
