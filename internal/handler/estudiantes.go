package handler

import (
	"net/http"

	"dragonya/internal/dto"
	"dragonya/internal/model"
	"dragonya/internal/service"

	"github.com/gin-gonic/gin"
)

type EstudiantesHandler struct{ svc service.EstudianteService }

func NewEstudiantesHandler(svc service.EstudianteService) *EstudiantesHandler {
	return &EstudiantesHandler{svc: svc}
}

// Login godoc
// @Summary      Login de estudiante
// @Tags         estudiantes
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  apierror.APIError
// @Failure      403   {object}  apierror.APIError
// @Failure      404   {object}  apierror.APIError
// @Router       /login [post]
func (h *EstudiantesHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	registrarLogin(model.RolEstudiante, err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Registro godoc
// @Summary      Registro de estudiante
// @Description  Crea la cuenta sin confirmar y envía el correo de verificación.
// @Tags         estudiantes
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegistroRequest  true  "Datos del estudiante"
// @Success      200   {object}  dto.MensajeResponse
// @Failure      400   {object}  apierror.APIError
// @Router       /registro [post]
func (h *EstudiantesHandler) Registro(c *gin.Context) {
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Registrar(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, service.MsgRevisaCorreoConfirmacion)
}

// ConfirmarEmail GET /confirmar/:token
func (h *EstudiantesHandler) ConfirmarEmail(c *gin.Context) {
	if err := h.svc.ConfirmarEmail(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, service.MsgCuentaConfirmada)
}

// RecuperarPassword POST /recuperar-password
func (h *EstudiantesHandler) RecuperarPassword(c *gin.Context) {
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

// ComprobarToken GET /comprobar-token/:token
func (h *EstudiantesHandler) ComprobarToken(c *gin.Context) {
	if err := h.svc.ComprobarToken(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, service.MsgTokenConfirmadoPassword)
}

// NuevoPassword POST /nuevo-password/:token
func (h *EstudiantesHandler) NuevoPassword(c *gin.Context) {
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

// Perfil GET /perfil
func (h *EstudiantesHandler) Perfil(c *gin.Context) {
	resp, err := h.svc.Perfil(principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarPassword PATCH /cambiar-password
func (h *EstudiantesHandler) CambiarPassword(c *gin.Context) {
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

// ActualizarDatos PATCH /actualizar-datos
func (h *EstudiantesHandler) ActualizarDatos(c *gin.Context) {
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

// Listar godoc
// @Summary      Listar estudiantes
// @Tags         estudiantes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.PerfilResponse
// @Failure      403  {object}  apierror.APIError
// @Router       /estudiantes [get]
func (h *EstudiantesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarPorEmail GET /estudiantes/:email
func (h *EstudiantesHandler) BuscarPorEmail(c *gin.Context) {
	resp, err := h.svc.BuscarPorEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado PATCH /estudiantes/:id
func (h *EstudiantesHandler) CambiarEstado(c *gin.Context) {
	resp, err := h.svc.CambiarEstado(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
