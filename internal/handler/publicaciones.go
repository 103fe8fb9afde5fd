package handler

import (
	"errors"
	"fmt"
	"net/http"

	"dragonya/internal/apierror"
	"dragonya/internal/dto"
	"dragonya/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// holgura admits the multipart envelope and text fields on top of the image.
const holgura = 1 << 20

type PublicacionesHandler struct {
	svc       service.PublicacionService
	maxUpload int64
}

func NewPublicacionesHandler(svc service.PublicacionService, maxUploadBytes int64) *PublicacionesHandler {
	return &PublicacionesHandler{svc: svc, maxUpload: maxUploadBytes}
}

// Crear godoc
// @Summary      Crear publicación
// @Tags         publicacion
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        titulo       formData  string  true  "Título"
// @Param        descripcion  formData  string  true  "Descripción"
// @Param        categoria    formData  string  true  "ID de la categoría"
// @Param        precio       formData  string  true  "Precio"
// @Param        imagen       formData  file    true  "Imagen jpg, jpeg, png o webp"
// @Success      201  {object}  dto.PublicacionResponse
// @Failure      400  {object}  apierror.APIError
// @Failure      401  {object}  apierror.APIError
// @Failure      404  {object}  apierror.APIError
// @Failure      500  {object}  apierror.InternalError
// @Router       /publicacion [post]
func (h *PublicacionesHandler) Crear(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+holgura)

	var req dto.CrearPublicacionRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			respondError(c, apierror.Validation(fmt.Sprintf("La imagen no debe superar %d MB", h.maxUpload>>20)))
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			c.JSON(http.StatusBadRequest, apierror.New("Formulario invalido: "+err.Error()))
			return
		}
	}
	if !validar(c, &req) {
		return
	}

	var img *dto.ImagenUpload
	fh, err := c.FormFile("imagen")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			respondError(c, apierror.Internal("Error al leer la imagen", err))
			return
		}
		defer f.Close()
		img = &dto.ImagenUpload{Nombre: fh.Filename, Tamanio: fh.Size, Archivo: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// the service reports the missing image after checking the text fields
	default:
		c.JSON(http.StatusBadRequest, apierror.New("Formulario invalido: "+err.Error()))
		return
	}

	resp, err := h.svc.Crear(c.Request.Context(), principal(c), req, img)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /publicacion
func (h *PublicacionesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorTitulo GET /publicacion/:titulo
func (h *PublicacionesHandler) ObtenerPorTitulo(c *gin.Context) {
	resp, err := h.svc.ObtenerPorTitulo(c.Request.Context(), c.Param("titulo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerDetalle godoc
// @Summary      Detalle de una publicación con autor y categoría
// @Tags         publicacion
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID de la publicación"
// @Success      200  {object}  dto.PublicacionResponse
// @Failure      400  {object}  apierror.APIError
// @Failure      404  {object}  apierror.APIError
// @Router       /publicacion/detalle/{id} [get]
func (h *PublicacionesHandler) ObtenerDetalle(c *gin.Context) {
	resp, err := h.svc.ObtenerDetalle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar PUT /publicacion/:id
func (h *PublicacionesHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarPublicacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), principal(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PublicacionMensajeResponse{Msg: service.MsgPublicacionEditada, Publicacion: resp})
}

// CambiarEstado PATCH /publicacion/:id
func (h *PublicacionesHandler) CambiarEstado(c *gin.Context) {
	resp, err := h.svc.CambiarEstado(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarVendida PATCH /publicacion/:id/vendida
func (h *PublicacionesHandler) CambiarVendida(c *gin.Context) {
	resp, err := h.svc.CambiarVendida(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar DELETE /publicacion/:id
func (h *PublicacionesHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	mensaje(c, http.StatusOK, service.MsgPublicacionEliminada)
}

// ListarPorUsuario GET /publicacion-user and GET /publicacion-user/:id
func (h *PublicacionesHandler) ListarPorUsuario(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		id = c.Query("id")
	}
	resp, err := h.svc.ListarPorUsuario(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
