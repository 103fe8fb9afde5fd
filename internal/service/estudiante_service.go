package service

import (
	"context"
	"strings"

	"dragonya/internal/apierror"
	"dragonya/internal/auth"
	"dragonya/internal/dto"
	"dragonya/internal/model"
	"dragonya/internal/repository"
)

const (
	MsgRevisaCorreoConfirmacion = "Revisa tu correo electrónico para confirmar tu cuenta"
	MsgCuentaConfirmada         = "Token confirmado, ya puedes iniciar sesión"

	msgEmailRegistrado     = "Lo sentimos, el email ya se encuentra registrado"
	msgEstudianteNoExiste  = "Estudiante no encontrado"
	msgCuentaYaConfirmada  = "La cuenta ya ha sido confirmada"
	msgEstudianteActivado  = "Estudiante activado exitosamente"
	msgEstudianteInactivo  = "Estudiante inactivado exitosamente"
	msgCuentaInactiva      = "Lo sentimos, tu cuenta se encuentra inactiva"
	msgDebeVerificarCuenta = "Lo sentimos, debe verificar su cuenta"
)

// EstudianteService covers registration, login and account self-service for
// students plus the administrator's account management operations.
type EstudianteService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Registrar(ctx context.Context, req dto.RegistroRequest) error
	ConfirmarEmail(ctx context.Context, token string) error
	RecuperarPassword(ctx context.Context, email string) error
	ComprobarToken(ctx context.Context, token string) error
	NuevoPassword(ctx context.Context, token string, req dto.NuevoPasswordRequest) error
	CambiarPassword(ctx context.Context, p auth.Principal, req dto.CambiarPasswordRequest) error
	ActualizarDatos(ctx context.Context, p auth.Principal, req dto.ActualizarDatosRequest) (string, error)
	Perfil(p auth.Principal) (dto.PerfilResponse, error)

	Listar(ctx context.Context) ([]dto.PerfilResponse, error)
	BuscarPorEmail(ctx context.Context, email string) (dto.PerfilResponse, error)
	CambiarEstado(ctx context.Context, id string) (dto.EstadoResponse, error)
}

type estudianteService struct {
	repo     repository.EstudianteRepository
	hasher   auth.Hasher
	tokens   *auth.TokenIssuer
	nuevoTok auth.TokenGenerator
	notifica Notificador
}

func NewEstudianteService(
	repo repository.EstudianteRepository,
	hasher auth.Hasher,
	tokens *auth.TokenIssuer,
	nuevoTok auth.TokenGenerator,
	notifica Notificador,
) EstudianteService {
	return &estudianteService{repo: repo, hasher: hasher, tokens: tokens, nuevoTok: nuevoTok, notifica: notifica}
}

func mapPerfilEstudiante(e *model.Estudiante) dto.PerfilResponse {
	return dto.PerfilResponse{
		ID:           e.ID,
		Nombre:       e.Nombre,
		Apellido:     e.Apellido,
		Email:        e.Email,
		Celular:      e.Celular,
		Direccion:    e.Direccion,
		Estado:       e.Estado,
		Rol:          e.Rol,
		ConfirmEmail: e.ConfirmEmail,
	}
}

func (s *estudianteService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if algunoVacio(req.Email, req.Password) {
		return dto.LoginResponse{}, apierror.Validation(msgCamposVacios)
	}
	e, err := s.repo.ObtenerPorEmail(ctx, normalizarEmail(req.Email))
	if err != nil {
		if esNoEncontrado(err) {
			return dto.LoginResponse{}, apierror.NotFound(msgUsuarioNoExiste)
		}
		return dto.LoginResponse{}, apierror.Internal("Error al iniciar sesión", err)
	}
	switch {
	case e.Rol != model.RolEstudiante:
		return dto.LoginResponse{}, apierror.Forbidden("Acceso denegado: no tienes permisos de estudiante")
	case !e.Estado:
		return dto.LoginResponse{}, apierror.Forbidden(msgCuentaInactiva)
	case !e.ConfirmEmail:
		return dto.LoginResponse{}, apierror.Forbidden(msgDebeVerificarCuenta)
	}
	ok, err := s.hasher.Comparar(e.Password, req.Password)
	if err != nil {
		return dto.LoginResponse{}, apierror.Internal("Error al iniciar sesión", err)
	}
	if !ok {
		return dto.LoginResponse{}, apierror.InvalidCredential(msgPasswordIncorrecto)
	}

	token, err := s.tokens.Emitir(e.ID, model.RolEstudiante)
	if err != nil {
		return dto.LoginResponse{}, apierror.Internal("Error al generar el token", err)
	}
	return dto.LoginResponse{
		Token:     token,
		Rol:       model.RolEstudiante,
		ID:        e.ID,
		Nombre:    e.Nombre,
		Apellido:  e.Apellido,
		Email:     e.Email,
		Celular:   e.Celular,
		Direccion: e.Direccion,
		Estado:    e.Estado,
	}, nil
}

func (s *estudianteService) Registrar(ctx context.Context, req dto.RegistroRequest) error {
	if algunoVacio(req.Email, req.Password, req.Celular, req.Direccion, req.Nombre, req.Apellido) {
		return apierror.Validation(msgCamposVacios)
	}
	celular := strings.TrimSpace(req.Celular)
	if !celularValido(celular) {
		return apierror.Validation(msgCelularInvalido)
	}
	if err := validarPasswordRegistro(req.Password); err != nil {
		return err
	}

	email := normalizarEmail(req.Email)
	if _, err := s.repo.ObtenerPorEmail(ctx, email); err == nil {
		return apierror.Conflict(msgEmailRegistrado)
	} else if !esNoEncontrado(err) {
		return apierror.Internal("Error al registrar el estudiante", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return apierror.Internal("Error al registrar el estudiante", err)
	}
	token, err := s.nuevoTok()
	if err != nil {
		return apierror.Internal("Error al generar el token", err)
	}
	e := &model.Estudiante{
		Nombre:    strings.TrimSpace(req.Nombre),
		Apellido:  strings.TrimSpace(req.Apellido),
		Email:     email,
		Direccion: strings.TrimSpace(req.Direccion),
		Password:  hash,
		Celular:   celular,
		Estado:    true,
		Rol:       model.RolEstudiante,
		Token:     &token,
	}
	if err := s.repo.Crear(ctx, e); err != nil {
		if esDuplicado(err) {
			return apierror.Conflict(msgEmailRegistrado)
		}
		return apierror.Internal("Error al registrar el estudiante", err)
	}
	notificar(email, "confirmacion", s.notifica.EnviarConfirmacion(ctx, email, token))
	return nil
}

func (s *estudianteService) ConfirmarEmail(ctx context.Context, token string) error {
	if token == "" {
		return apierror.Validation(msgTokenInvalido)
	}
	e, err := s.repo.ObtenerPorToken(ctx, token)
	if err != nil {
		if esNoEncontrado(err) {
			return apierror.NotFound(msgCuentaYaConfirmada)
		}
		return apierror.Internal("Error al confirmar la cuenta", err)
	}
	e.Token = nil
	e.ConfirmEmail = true
	if err := s.repo.Actualizar(ctx, e); err != nil {
		return apierror.Internal("Error al confirmar la cuenta", err)
	}
	return nil
}

func (s *estudianteService) RecuperarPassword(ctx context.Context, email string) error {
	if algunoVacio(email) {
		return apierror.Validation(msgCamposVacios)
	}
	e, err := s.repo.ObtenerPorEmail(ctx, normalizarEmail(email))
	if err != nil {
		if esNoEncontrado(err) {
			return apierror.NotFound(msgUsuarioNoExiste)
		}
		return apierror.Internal("Error al recuperar la contraseña", err)
	}
	if e.Rol != model.RolEstudiante {
		return apierror.Forbidden("Acceso denegado: solo estudiantes pueden recuperar contraseña")
	}

	token, err := s.nuevoTok()
	if err != nil {
		return apierror.Internal("Error al generar el token", err)
	}
	e.Token = &token
	if err := s.repo.Actualizar(ctx, e); err != nil {
		return apierror.Internal("Error al recuperar la contraseña", err)
	}
	notificar(e.Email, "recuperacion", s.notifica.EnviarRecuperacion(ctx, e.Email, token, model.RolEstudiante))
	return nil
}

func (s *estudianteService) ComprobarToken(ctx context.Context, token string) error {
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

func (s *estudianteService) NuevoPassword(ctx context.Context, token string, req dto.NuevoPasswordRequest) error {
	if err := validarNuevoPassword(nuevoPassword{req.Password, req.ConfirmPassword}); err != nil {
		return err
	}
	if token == "" {
		return apierror.Validation(msgTokenInvalido)
	}
	e, err := s.repo.ObtenerPorToken(ctx, token)
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
	e.Token = nil
	e.Password = hash
	if err := s.repo.Actualizar(ctx, e); err != nil {
		return apierror.Internal("Error al guardar la contraseña", err)
	}
	return nil
}

func (s *estudianteService) cargar(ctx context.Context, p auth.Principal) (*model.Estudiante, error) {
	actual := auth.EstudianteDe(p)
	if actual == nil {
		return nil, apierror.Unauthorized(msgNoAutorizado)
	}
	e, err := s.repo.ObtenerPorID(ctx, actual.ID)
	if err != nil {
		if esNoEncontrado(err) {
			return nil, apierror.NotFound(msgEstudianteNoExiste)
		}
		return nil, apierror.Internal("Error al obtener el estudiante", err)
	}
	return e, nil
}

func (s *estudianteService) CambiarPassword(ctx context.Context, p auth.Principal, req dto.CambiarPasswordRequest) error {
	if err := validarSolicitudCambio(req); err != nil {
		return err
	}
	e, err := s.cargar(ctx, p)
	if err != nil {
		return err
	}
	hash, err := rehash(s.hasher, e.Password, req)
	if err != nil {
		return err
	}
	e.Password = hash
	if err := s.repo.Actualizar(ctx, e); err != nil {
		return apierror.Internal("Error al actualizar la contraseña", err)
	}
	return nil
}

func (s *estudianteService) ActualizarDatos(ctx context.Context, p auth.Principal, req dto.ActualizarDatosRequest) (string, error) {
	if err := validarDatos(&req); err != nil {
		return "", err
	}
	e, err := s.cargar(ctx, p)
	if err != nil {
		return "", err
	}
	if e.Nombre == req.Nombre && e.Apellido == req.Apellido &&
		e.Celular == req.Celular && e.Direccion == req.Direccion {
		return MsgDatosSinCambios, nil
	}

	e.Nombre = req.Nombre
	e.Apellido = req.Apellido
	e.Celular = req.Celular
	e.Direccion = req.Direccion
	if err := s.repo.Actualizar(ctx, e); err != nil {
		return "", apierror.Internal("Error al actualizar los datos", err)
	}
	return MsgDatosActualizados, nil
}

func (s *estudianteService) Perfil(p auth.Principal) (dto.PerfilResponse, error) {
	e := auth.EstudianteDe(p)
	if e == nil {
		return dto.PerfilResponse{}, apierror.Unauthorized(msgNoAutorizado)
	}
	return mapPerfilEstudiante(e), nil
}

func (s *estudianteService) Listar(ctx context.Context) ([]dto.PerfilResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, apierror.Internal("Error al obtener los estudiantes", err)
	}
	result := make([]dto.PerfilResponse, 0, len(list))
	for i := range list {
		result = append(result, mapPerfilEstudiante(&list[i]))
	}
	return result, nil
}

func (s *estudianteService) BuscarPorEmail(ctx context.Context, email string) (dto.PerfilResponse, error) {
	e, err := s.repo.ObtenerPorEmail(ctx, normalizarEmail(email))
	if err != nil {
		if esNoEncontrado(err) {
			return dto.PerfilResponse{}, apierror.NotFound(msgEstudianteNoExiste)
		}
		return dto.PerfilResponse{}, apierror.Internal("Error al obtener el estudiante", err)
	}
	return mapPerfilEstudiante(e), nil
}

func (s *estudianteService) CambiarEstado(ctx context.Context, rawID string) (dto.EstadoResponse, error) {
	id, err := parseID(rawID, msgIDInvalido)
	if err != nil {
		return dto.EstadoResponse{}, err
	}
	e, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if esNoEncontrado(err) {
			return dto.EstadoResponse{}, apierror.NotFound(msgEstudianteNoExiste)
		}
		return dto.EstadoResponse{}, apierror.Internal("Error al cambiar el estado del estudiante", err)
	}
	e.Estado = !e.Estado
	if err := s.repo.Actualizar(ctx, e); err != nil {
		return dto.EstadoResponse{}, apierror.Internal("Error al cambiar el estado del estudiante", err)
	}
	msg := msgEstudianteInactivo
	if e.Estado {
		msg = msgEstudianteActivado
	}
	return dto.EstadoResponse{Msg: msg, Estado: e.Estado}, nil
}
