package handler

import (
	"errors"
	"io"
	"net/http"

	"dragonya/internal/apierror"
	"dragonya/internal/auth"
	"dragonya/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const msgErrorInterno = "Error interno del servidor"

var validate = validator.New()

// bindAndValidate binds the JSON body and runs go-playground/validator tags.
// An empty body binds the zero value so that services report missing fields themselves.
// Returns false after writing a 400 response.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req any) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		respondError(c, apierror.Internal(msgErrorInterno, err))
		return false
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
	return false
}

// respondError writes the response for a service error: {"msg"} for 4xx,
// {"error","detalle"} for 500. Internal failures are logged with the request id.
func respondError(c *gin.Context, err error) {
	var e *apierror.Error
	if !errors.As(err, &e) {
		e = apierror.Internal(msgErrorInterno, err)
	}
	if e.Kind != apierror.KindInternal {
		c.JSON(e.Kind.Status(), apierror.New(e.Msg))
		return
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg(e.Msg)
	body := apierror.InternalError{Error: e.Msg}
	if e.ExponerDetalle && e.Err != nil {
		body.Detalle = e.Err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

func mensaje(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"msg": msg})
}

// principal returns the authenticated caller; routes behind Authenticate always have one.
func principal(c *gin.Context) auth.Principal {
	return middleware.GetPrincipal(c)
}
