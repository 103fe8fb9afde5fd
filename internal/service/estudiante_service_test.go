package service_test

import (
	"context"
	"testing"

	"dragonya/internal/apierror"
	"dragonya/internal/auth"
	"dragonya/internal/dto"
	"dragonya/internal/model"
	"dragonya/internal/repository/repotest"
	"dragonya/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type estudianteFixture struct {
	repo     *repotest.Estudiantes
	notifica *notificadorFake
	svc      service.EstudianteService
}

func newEstudianteFixture() *estudianteFixture {
	f := &estudianteFixture{repo: repotest.NewEstudiantes(), notifica: &notificadorFake{}}
	f.svc = service.NewEstudianteService(f.repo, newHasher(), newIssuer(), secuenciaTokens(), f.notifica)
	return f
}

func registroValido() dto.RegistroRequest {
	return dto.RegistroRequest{
		Email:     "luis@epn.edu.ec",
		Password:  "Secreta123",
		Celular:   "0991234567",
		Direccion: "Av. Ladrón de Guevara",
		Nombre:    "Luis",
		Apellido:  "Mora",
	}
}

// registrarConfirmado signs a student up and consumes the confirmation token.
func (f *estudianteFixture) registrarConfirmado(t *testing.T, req dto.RegistroRequest) *model.Estudiante {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.Registrar(ctx, req))
	e, err := f.repo.ObtenerPorEmail(ctx, req.Email)
	require.NoError(t, err)
	require.NoError(t, f.svc.ConfirmarEmail(ctx, *e.Token))
	e, err = f.repo.ObtenerPorEmail(ctx, req.Email)
	require.NoError(t, err)
	return e
}

func TestRegistrar_CamposVaciosNoPersistenNiNotifican(t *testing.T) {
	vaciar := map[string]func(*dto.RegistroRequest){
		"email":     func(r *dto.RegistroRequest) { r.Email = "" },
		"password":  func(r *dto.RegistroRequest) { r.Password = "" },
		"celular":   func(r *dto.RegistroRequest) { r.Celular = "" },
		"direccion": func(r *dto.RegistroRequest) { r.Direccion = "" },
		"nombre":    func(r *dto.RegistroRequest) { r.Nombre = "" },
		"apellido":  func(r *dto.RegistroRequest) { r.Apellido = "   " },
	}
	for campo, mutar := range vaciar {
		t.Run(campo, func(t *testing.T) {
			f := newEstudianteFixture()
			req := registroValido()
			mutar(&req)

			err := f.svc.Registrar(context.Background(), req)
			assertAPIError(t, err, apierror.KindValidation, "Lo sentimos, debes llenar todos los campos")
			assert.Zero(t, f.repo.Creados)
			assert.Empty(t, f.notifica.confirmaciones)
		})
	}
}

func TestRegistrar_PoliticaDePassword(t *testing.T) {
	tests := []struct {
		name     string
		celular  string
		password string
		msg      string
	}{
		{"celular corto", "123", "Secreta123", "El número de celular debe tener 10 dígitos"},
		{"celular con letras", "09912345ab", "Secreta123", "El número de celular debe tener 10 dígitos"},
		{"celular con punto decimal", "12345.6789", "Secreta123", "El número de celular debe tener 10 dígitos"},
		{"celular con signo negativo", "-123456789", "Secreta123", "El número de celular debe tener 10 dígitos"},
		{"celular con signo positivo", "+099999999", "Secreta123", "El número de celular debe tener 10 dígitos"},
		{"password corto", "0991234567", "Ab1", "La contraseña debe tener minimo 8 digitos"},
		{"sin numero", "0991234567", "Secretaaa", "La contraseña debe contener al menos un número"},
		{"sin mayuscula", "0991234567", "secreta123", "La contraseña debe contener al menos una mayúscula"},
		{"mas de 72 bytes", "0991234567", passwordMultibyte, "La contraseña no debe superar los 72 bytes"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newEstudianteFixture()
			req := registroValido()
			req.Celular, req.Password = tc.celular, tc.password

			err := f.svc.Registrar(context.Background(), req)
			assertAPIError(t, err, apierror.KindValidation, tc.msg)
			assert.Zero(t, f.repo.Creados)
		})
	}
}

func TestRegistrar_EmailDuplicado(t *testing.T) {
	f := newEstudianteFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.Registrar(ctx, registroValido()))

	req := registroValido()
	req.Email = "LUIS@epn.edu.ec"
	assertAPIError(t, f.svc.Registrar(ctx, req), apierror.KindConflict, "Lo sentimos, el email ya se encuentra registrado")
	assert.Equal(t, 1, f.repo.Creados)
	assert.Len(t, f.notifica.confirmaciones, 1)
}

func TestRegistro_ConfirmacionYLogin(t *testing.T) {
	f := newEstudianteFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Registrar(ctx, registroValido()))
	e, err := f.repo.ObtenerPorEmail(ctx, "luis@epn.edu.ec")
	require.NoError(t, err)
	assert.False(t, e.ConfirmEmail)
	assert.True(t, e.Estado)
	assert.NotEqual(t, "Secreta123", e.Password)
	require.Len(t, f.notifica.confirmaciones, 1)
	assert.Equal(t, *e.Token, f.notifica.confirmaciones[0].token)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "luis@epn.edu.ec", Password: "Secreta123"})
	assertAPIError(t, err, apierror.KindForbidden, "Lo sentimos, debe verificar su cuenta")

	require.NoError(t, f.svc.ConfirmarEmail(ctx, *e.Token))
	assertAPIError(t, f.svc.ConfirmarEmail(ctx, *e.Token), apierror.KindNotFound, "La cuenta ya ha sido confirmada")
	assertAPIError(t, f.svc.ConfirmarEmail(ctx, ""), apierror.KindValidation, "Lo sentimos, no se puede validar la cuenta")

	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "luis@epn.edu.ec", Password: "Mala1234"})
	assertAPIError(t, err, apierror.KindInvalidCredential, "Lo sentimos, el password no es el correcto")

	resp, err := f.svc.Login(ctx, dto.LoginRequest{Email: "luis@epn.edu.ec", Password: "Secreta123"})
	require.NoError(t, err)
	assert.Equal(t, model.RolEstudiante, resp.Rol)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginEstudiante_RolYEstado(t *testing.T) {
	f := newEstudianteFixture()
	ctx := context.Background()
	e := f.registrarConfirmado(t, registroValido())

	_, err := f.svc.Login(ctx, dto.LoginRequest{Email: "", Password: "x"})
	assertAPIError(t, err, apierror.KindValidation, "Lo sentimos, debes llenar todos los campos")
	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "otro@epn.edu.ec", Password: "x"})
	assertAPIError(t, err, apierror.KindNotFound, "Lo sentimos, el usuario no se encuentra registrado")

	_, err = f.svc.CambiarEstado(ctx, e.ID.String())
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: e.Email, Password: "Secreta123"})
	assertAPIError(t, err, apierror.KindForbidden, "Lo sentimos, tu cuenta se encuentra inactiva")

	e, err = f.repo.ObtenerPorID(ctx, e.ID)
	require.NoError(t, err)
	e.Estado = true
	e.Rol = "otro"
	require.NoError(t, f.repo.Actualizar(ctx, e))
	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: e.Email, Password: "Secreta123"})
	assertAPIError(t, err, apierror.KindForbidden, "Acceso denegado: no tienes permisos de estudiante")
}

func TestCambiarEstadoEstudiante_DobleToggleRestaura(t *testing.T) {
	f := newEstudianteFixture()
	ctx := context.Background()
	e := f.registrarConfirmado(t, registroValido())

	primero, err := f.svc.CambiarEstado(ctx, e.ID.String())
	require.NoError(t, err)
	assert.False(t, primero.Estado)
	assert.Equal(t, "Estudiante inactivado exitosamente", primero.Msg)

	segundo, err := f.svc.CambiarEstado(ctx, e.ID.String())
	require.NoError(t, err)
	assert.True(t, segundo.Estado)
	assert.Equal(t, "Estudiante activado exitosamente", segundo.Msg)

	_, err = f.svc.CambiarEstado(ctx, "id_invalido")
	assertAPIError(t, err, apierror.KindValidation, "ID no válido")
	_, err = f.svc.CambiarEstado(ctx, uuid.NewString())
	assertAPIError(t, err, apierror.KindNotFound, "Estudiante no encontrado")
}

func TestRecuperarPasswordEstudiante(t *testing.T) {
	f := newEstudianteFixture()
	ctx := context.Background()
	e := f.registrarConfirmado(t, registroValido())

	require.NoError(t, f.svc.RecuperarPassword(ctx, e.Email))
	require.Len(t, f.notifica.recuperaciones, 1)
	tok := f.notifica.recuperaciones[0].token
	assert.Equal(t, model.RolEstudiante, f.notifica.recuperaciones[0].rol)

	require.NoError(t, f.svc.ComprobarToken(ctx, tok))
	require.NoError(t, f.svc.NuevoPassword(ctx, tok, dto.NuevoPasswordRequest{Password: "simple", ConfirmPassword: "simple"}))
	_, err := f.svc.Login(ctx, dto.LoginRequest{Email: e.Email, Password: "simple"})
	require.NoError(t, err)

	e, err = f.repo.ObtenerPorID(ctx, e.ID)
	require.NoError(t, err)
	e.Rol = model.RolAdministrador
	require.NoError(t, f.repo.Actualizar(ctx, e))
	assertAPIError(t, f.svc.RecuperarPassword(ctx, e.Email), apierror.KindForbidden, "Acceso denegado: solo estudiantes pueden recuperar contraseña")
}

func TestEstudianteSelfService(t *testing.T) {
	f := newEstudianteFixture()
	ctx := context.Background()
	e := f.registrarConfirmado(t, registroValido())
	p := auth.EstudiantePrincipal{Estudiante: e}

	perfil, err := f.svc.Perfil(p)
	require.NoError(t, err)
	assert.Equal(t, "luis@epn.edu.ec", perfil.Email)
	assert.True(t, perfil.ConfirmEmail)

	msg, err := f.svc.ActualizarDatos(ctx, p, dto.ActualizarDatosRequest{
		Nombre: "Luis", Apellido: "Mora", Celular: "0991234567", Direccion: "Av. Ladrón de Guevara",
	})
	require.NoError(t, err)
	assert.Equal(t, "No se realizaron cambios, los datos son los mismos.", msg)

	msg, err = f.svc.ActualizarDatos(ctx, p, dto.ActualizarDatosRequest{
		Nombre: "Luis", Apellido: "Mora", Celular: "0991234567", Direccion: "Sangolquí",
	})
	require.NoError(t, err)
	assert.Equal(t, "Datos actualizados exitosamente", msg)

	err = f.svc.CambiarPassword(ctx, p, dto.CambiarPasswordRequest{PasswordActual: "Secreta123", NuevaPassword: "Nueva1234", RepetirPassword: "Nueva1234"})
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: e.Email, Password: "Nueva1234"})
	require.NoError(t, err)

	err = f.svc.CambiarPassword(ctx, auth.AdminPrincipal{Administrador: &model.Administrador{}},
		dto.CambiarPasswordRequest{PasswordActual: "Secreta123", NuevaPassword: "Nueva1234", RepetirPassword: "Nueva1234"})
	assertAPIError(t, err, apierror.KindUnauthorized, "No autorizado")

	err = f.svc.CambiarPassword(ctx, auth.EstudiantePrincipal{Estudiante: &model.Estudiante{ID: uuid.New()}},
		dto.CambiarPasswordRequest{PasswordActual: "Secreta123", NuevaPassword: "Nueva1234", RepetirPassword: "Nueva1234"})
	assertAPIError(t, err, apierror.KindNotFound, "Estudiante no encontrado")
}

func TestListarYBuscarEstudiantes(t *testing.T) {
	f := newEstudianteFixture()
	ctx := context.Background()
	f.registrarConfirmado(t, registroValido())
	otro := registroValido()
	otro.Email, otro.Apellido = "ana@epn.edu.ec", "Andrade"
	f.registrarConfirmado(t, otro)

	list, err := f.svc.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Andrade", list[0].Apellido)

	encontrado, err := f.svc.BuscarPorEmail(ctx, "ana@epn.edu.ec")
	require.NoError(t, err)
	assert.Equal(t, "Andrade", encontrado.Apellido)

	_, err = f.svc.BuscarPorEmail(ctx, "nadie@epn.edu.ec")
	assertAPIError(t, err, apierror.KindNotFound, "Estudiante no encontrado")
}
