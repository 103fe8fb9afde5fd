package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dragonya/internal/auth"
	"dragonya/internal/middleware"
	"dragonya/internal/model"
	"dragonya/internal/repository/repotest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type authFixture struct {
	issuer      *auth.TokenIssuer
	admins      *repotest.Administradores
	estudiantes *repotest.Estudiantes
	router      *gin.Engine
	admin       *model.Administrador
	estudiante  *model.Estudiante
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctx := context.Background()
	f := &authFixture{
		issuer:      auth.NewTokenIssuer("secret", time.Hour),
		admins:      repotest.NewAdministradores(),
		estudiantes: repotest.NewEstudiantes(),
	}
	f.admin = &model.Administrador{Nombre: "A", Apellido: "B", Email: "a@x.com", Rol: model.RolAdministrador}
	require.NoError(t, f.admins.Crear(ctx, f.admin))
	f.estudiante = &model.Estudiante{Nombre: "E", Apellido: "S", Email: "e@x.com", Rol: model.RolEstudiante}
	require.NoError(t, f.estudiantes.Crear(ctx, f.estudiante))

	r := gin.New()
	protegido := r.Group("/", middleware.Authenticate(f.issuer, f.admins, f.estudiantes))
	protegido.GET("/quien", func(c *gin.Context) {
		switch p := middleware.GetPrincipal(c).(type) {
		case auth.AdminPrincipal:
			c.JSON(http.StatusOK, gin.H{"tipo": "admin", "id": p.Administrador.ID})
		case auth.EstudiantePrincipal:
			c.JSON(http.StatusOK, gin.H{"tipo": "estudiante", "id": p.Estudiante.ID})
		default:
			c.Status(http.StatusTeapot)
		}
	})
	protegido.GET("/admin", middleware.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	f.router = r
	return f
}

func (f *authFixture) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func msgDe(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["msg"].(string)
	return msg
}

func TestAuthenticate_SinToken(t *testing.T) {
	f := newAuthFixture(t)
	w := f.get("/quien", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Lo sentimos, debes proprocionar un token", msgDe(t, w))
}

func TestAuthenticate_TokenInvalidoOExpirado(t *testing.T) {
	f := newAuthFixture(t)
	expirado, err := auth.NewTokenIssuer("secret", -time.Minute).Emitir(f.estudiante.ID, model.RolEstudiante)
	require.NoError(t, err)
	otraClave, err := auth.NewTokenIssuer("otra", time.Hour).Emitir(f.estudiante.ID, model.RolEstudiante)
	require.NoError(t, err)
	rolRaro, err := f.issuer.Emitir(f.estudiante.ID, "superusuario")
	require.NoError(t, err)

	for name, tok := range map[string]string{"basura": "abc.def", "expirado": expirado, "firma": otraClave, "rol": rolRaro} {
		t.Run(name, func(t *testing.T) {
			w := f.get("/quien", tok)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Formato del token no válido", msgDe(t, w))
		})
	}
}

func TestAuthenticate_ResuelveUnaSolaVariante(t *testing.T) {
	f := newAuthFixture(t)

	tokAdmin, err := f.issuer.Emitir(f.admin.ID, model.RolAdministrador)
	require.NoError(t, err)
	w := f.get("/quien", tokAdmin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tipo":"admin","id":"`+f.admin.ID.String()+`"}`, w.Body.String())

	tokEst, err := f.issuer.Emitir(f.estudiante.ID, model.RolEstudiante)
	require.NoError(t, err)
	w = f.get("/quien", tokEst)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tipo":"estudiante","id":"`+f.estudiante.ID.String()+`"}`, w.Body.String())
}

func TestAuthenticate_CuentaInexistente(t *testing.T) {
	f := newAuthFixture(t)
	// an admin id signed with the student role must not resolve
	tok, err := f.issuer.Emitir(f.admin.ID, model.RolEstudiante)
	require.NoError(t, err)
	w := f.get("/quien", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No autorizado", msgDe(t, w))

	tok, err = f.issuer.Emitir(uuid.New(), model.RolAdministrador)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, f.get("/quien", tok).Code)
}

func TestRequireAdmin(t *testing.T) {
	f := newAuthFixture(t)
	tokEst, err := f.issuer.Emitir(f.estudiante.ID, model.RolEstudiante)
	require.NoError(t, err)
	w := f.get("/admin", tokEst)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Acceso denegado: no tienes permisos de administrador", msgDe(t, w))

	tokAdmin, err := f.issuer.Emitir(f.admin.ID, model.RolAdministrador)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, f.get("/admin", tokAdmin).Code)
}
