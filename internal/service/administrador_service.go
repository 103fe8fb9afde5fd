package service

import (
	"context"

	"dragonya/internal/apierror"
	"dragonya/internal/auth"
	"dragonya/internal/dto"
	"dragonya/internal/model"
	"dragonya/internal/repository"
)

// AdministradorService covers the administrator account lifecycle.
type AdministradorService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RecuperarPassword(ctx context.Context, email string) error
	ComprobarToken(ctx context.Context, token string) error
	NuevoPassword(ctx context.Context, token string, req dto.NuevoPasswordRequest) error
	CambiarPassword(ctx context.Context, p auth.Principal, req dto.CambiarPasswordRequest) error
	// ActualizarDatos returns the message describing whether anything changed.
	ActualizarDatos(ctx context.Context, p auth.Principal, req dto.ActualizarDatosRequest) (string, error)
	Perfil(p auth.Principal) (dto.PerfilResponse, error)
}

type administradorService struct {
	repo     repository.AdministradorRepository
	hasher   auth.Hasher
	tokens   *auth.TokenIssuer
	nuevoTok auth.TokenGenerator
	notifica Notificador
}

func NewAdministradorService(
	repo repository.AdministradorRepository,
	hasher auth.Hasher,
	tokens *auth.TokenIssuer,
	nuevoTok auth.TokenGenerator,
	notifica Notificador,
) AdministradorService {
	return &administradorService{repo: repo, hasher: hasher, tokens: tokens, nuevoTok: nuevoTok, notifica: notifica}
}

func mapPerfilAdmin(a *model.Administrador) dto.PerfilResponse {
	return dto.PerfilResponse{
		ID:           a.ID,
		Nombre:       a.Nombre,
		Apellido:     a.Apellido,
		Email:        a.Email,
		Celular:      deref(a.Celular),
		Direccion:    deref(a.Direccion),
		Estado:       a.Estado,
		Rol:          a.Rol,
		ConfirmEmail: a.ConfirmEmail,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *administradorService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if algunoVacio(req.Email, req.Password) {
		return dto.LoginResponse{}, apierror.Validation(msgCamposVacios)
	}
	a, err := s.repo.ObtenerPorEmail(ctx, normalizarEmail(req.Email))
	if err != nil {
		if esNoEncontrado(err) {
			return dto.LoginResponse{}, apierror.NotFound(msgUsuarioNoExiste)
		}
		return dto.LoginResponse{}, apierror.Internal("Error al iniciar sesión", err)
	}
	if a.Rol != model.RolAdministrador {
		return dto.LoginResponse{}, apierror.Forbidden("Acceso denegado: no tienes permisos de administrador")
	}
	ok, err := s.hasher.Comparar(a.Password, req.Password)
	if err != nil {
		return dto.LoginResponse{}, apierror.Internal("Error al iniciar sesión", err)
	}
	if !ok {
		return dto.LoginResponse{}, apierror.InvalidCredential(msgPasswordIncorrecto)
	}

	token, err := s.tokens.Emitir(a.ID, model.RolAdministrador)
	if err != nil {
		return dto.LoginResponse{}, apierror.Internal("Error al generar el token", err)
	}
	return dto.LoginResponse{
		Token:    token,
		Rol:      model.RolAdministrador,
		ID:       a.ID,
		Nombre:   a.Nombre,
		Apellido: a.Apellido,
		Email:    a.Email,
		Celular:  deref(a.Celular),
		Estado:   a.Estado,
	}, nil
}

func (s *administradorService) RecuperarPassword(ctx context.Context, email string) error {
	if algunoVacio(email) {
		return apierror.Validation(msgCamposVacios)
	}
	a, err := s.repo.ObtenerPorEmail(ctx, normalizarEmail(email))
	if err != nil {
		if esNoEncontrado(err) {
			return apierror.NotFound(msgUsuarioNoExiste)
		}
		return apierror.Internal("Error al recuperar la contraseña", err)
	}

	token, err := s.nuevoTok()
	if err != nil {
		return apierror.Internal("Error al generar el token", err)
	}
	a.Token = &token
	if err := s.repo.Actualizar(ctx, a); err != nil {
		return apierror.Internal("Error al recuperar la contraseña", err)
	}
	notificar(a.Email, "recuperacion", s.notifica.EnviarRecuperacion(ctx, a.Email, token, model.RolAdministrador))
	return nil
}

func (s *administradorService) ComprobarToken(ctx context.Context, token string) error {
	if token == "" {
		return apierror.Validation(msgTokenInvalido)
	}
	if _, err := s.repo.ObtenerPorToken(ctx, token); err != nil {
		if esNoEncontrado(err) {
			return apierror.NotFound(msgTokenInvalido)
		}
		return apierror.Internal("Error al comprobar el token", err)
	}
	return nil
}

func (s *administradorService) NuevoPassword(ctx context.Context, token string, req dto.NuevoPasswordRequest) error {
	if err := validarNuevoPassword(nuevoPassword{req.Password, req.ConfirmPassword}); err != nil {
		return err
	}
	if token == "" {
		return apierror.Validation(msgTokenInvalido)
	}
	a, err := s.repo.ObtenerPorToken(ctx, token)
	if err != nil {
		if esNoEncontrado(err) {
			return apierror.Validation(msgTokenInvalido)
		}
		return apierror.Internal("Error al guardar la contraseña", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return apierror.Internal("Error al guardar la contraseña", err)
	}
	a.Token = nil
	a.Password = hash
	if err := s.repo.Actualizar(ctx, a); err != nil {
		return apierror.Internal("Error al guardar la contraseña", err)
	}
	return nil
}

// cargar reloads the principal's administrator row.
func (s *administradorService) cargar(ctx context.Context, p auth.Principal) (*model.Administrador, error) {
	actual := auth.AdminDe(p)
	if actual == nil {
		return nil, apierror.Unauthorized(msgNoAutorizado)
	}
	a, err := s.repo.ObtenerPorID(ctx, actual.ID)
	if err != nil {
		if esNoEncontrado(err) {
			return nil, apierror.NotFound("Administrador no encontrado")
		}
		return nil, apierror.Internal("Error al obtener el administrador", err)
	}
	return a, nil
}

func (s *administradorService) CambiarPassword(ctx context.Context, p auth.Principal, req dto.CambiarPasswordRequest) error {
	if err := validarSolicitudCambio(req); err != nil {
		return err
	}
	a, err := s.cargar(ctx, p)
	if err != nil {
		return err
	}
	hash, err := rehash(s.hasher, a.Password, req)
	if err != nil {
		return err
	}
	a.Password = hash
	if err := s.repo.Actualizar(ctx, a); err != nil {
		return apierror.Internal("Error al actualizar la contraseña", err)
	}
	return nil
}

func (s *administradorService) ActualizarDatos(ctx context.Context, p auth.Principal, req dto.ActualizarDatosRequest) (string, error) {
	if err := validarDatos(&req); err != nil {
		return "", err
	}
	a, err := s.cargar(ctx, p)
	if err != nil {
		return "", err
	}
	if a.Nombre == req.Nombre && a.Apellido == req.Apellido &&
		deref(a.Celular) == req.Celular && deref(a.Direccion) == req.Direccion {
		return MsgDatosSinCambios, nil
	}

	a.Nombre = req.Nombre
	a.Apellido = req.Apellido
	a.Celular = &req.Celular
	a.Direccion = &req.Direccion
	if err := s.repo.Actualizar(ctx, a); err != nil {
		return "", apierror.Internal("Error al actualizar los datos", err)
	}
	return MsgDatosActualizados, nil
}

func (s *administradorService) Perfil(p auth.Principal) (dto.PerfilResponse, error) {
	a := auth.AdminDe(p)
	if a == nil {
		return dto.PerfilResponse{}, apierror.Unauthorized(msgNoAutorizado)
	}
	return mapPerfilAdmin(a), nil
}
