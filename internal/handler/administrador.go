package handler

import (
	"net/http"

	"dragonya/internal/apierror"
	"dragonya/internal/dto"
	"dragonya/internal/metrics"
	"dragonya/internal/model"
	"dragonya/internal/service"

	"github.com/gin-gonic/gin"
)

type AdministradorHandler struct{ svc service.AdministradorService }

func NewAdministradorHandler(svc service.AdministradorService) *AdministradorHandler {
	return &AdministradorHandler{svc: svc}
}

// registrarLogin counts a login attempt by outcome.
func registrarLogin(rol string, err error) {
	switch {
	case err == nil:
		metrics.RecordLogin(rol, metrics.ResultadoOK)
	case apierror.KindOf(err) == apierror.KindInternal:
		metrics.RecordLogin(rol, metrics.ResultadoError)
	default:
		metrics.RecordLogin(rol, metrics.ResultadoRechazo)
	}
}

// Login godoc
// @Summary      Login de administrador
// @Tags         administrador
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  apierror.APIError
// @Failure      403   {object}  apierror.APIError
// @Failure      404   {object}  apierror.APIError
// @Router       /administrador/login [post]
func (h *AdministradorHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	registrarLogin(model.RolAdministrador, err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecuperarPassword POST /administrador/recuperar-password
func (h *AdministradorHandler) RecuperarPassword(c *gin.Context) {
	var req dto.RecuperarPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RecuperarPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, service.MsgRevisaCorreoRecuperacion)
}

// ComprobarToken GET /administrador/comprobar-token/:token
func (h *AdministradorHandler) ComprobarToken(c *gin.Context) {
	if err := h.svc.ComprobarToken(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, service.MsgTokenConfirmadoPassword)
}

// NuevoPassword POST /administrador/nuevo-password/:token
func (h *AdministradorHandler) NuevoPassword(c *gin.Context) {
	var req dto.NuevoPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.NuevoPassword(c.Request.Context(), c.Param("token"), req); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, service.MsgNuevoPasswordGuardado)
}

// Perfil godoc
// @Summary      Perfil del administrador autenticado
// @Tags         administrador
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PerfilResponse
// @Failure      401  {object}  apierror.APIError
// @Router       /administrador/perfil [get]
func (h *AdministradorHandler) Perfil(c *gin.Context) {
	resp, err := h.svc.Perfil(principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarPassword PATCH /administrador/actualizar-password
func (h *AdministradorHandler) ActualizarPassword(c *gin.Context) {
	var req dto.CambiarPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarPassword(c.Request.Context(), principal(c), req); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, service.MsgPasswordActualizado)
}

// ActualizarDatos PATCH /administrador/actualizar-datos
func (h *AdministradorHandler) ActualizarDatos(c *gin.Context) {
	var req dto.ActualizarDatosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	msg, err := h.svc.ActualizarDatos(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, msg)
}
