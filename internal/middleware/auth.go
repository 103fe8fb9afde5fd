package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"dragonya/internal/apierror"
	"dragonya/internal/auth"
	"dragonya/internal/model"
	"dragonya/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const PrincipalKey = "principal"

const (
	msgSinToken       = "Lo sentimos, debes proprocionar un token"
	msgFormatoToken   = "Formato del token no válido"
	msgNoAutorizado   = "No autorizado"
	msgSoloAdmin      = "Acceso denegado: no tienes permisos de administrador"
	msgErrorPrincipal = "Error al verificar la sesión"
)

// Authenticate resolves the bearer token into exactly one auth.Principal variant.
// Expired and malformed tokens are rejected with the same message.
func Authenticate(
	issuer *auth.TokenIssuer,
	admins repository.AdministradorRepository,
	estudiantes repository.EstudianteRepository,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(msgSinToken))
			return
		}

		id, rol, err := issuer.Verificar(strings.TrimPrefix(header, "Bearer "))
		if err != nil || (rol != model.RolAdministrador && rol != model.RolEstudiante) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(msgFormatoToken))
			return
		}

		p, err := resolverPrincipal(c.Request.Context(), admins, estudiantes, id, rol)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(msgNoAutorizado))
				return
			}
			log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("principal lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.InternalError{Error: msgErrorPrincipal})
			return
		}

		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// resolverPrincipal loads the account named by the token claims.
func resolverPrincipal(
	ctx context.Context,
	admins repository.AdministradorRepository,
	estudiantes repository.EstudianteRepository,
	id uuid.UUID,
	rol string,
) (auth.Principal, error) {
	if rol == model.RolAdministrador {
		a, err := admins.ObtenerPorID(ctx, id)
		if err != nil {
			return nil, err
		}
		return auth.AdminPrincipal{Administrador: a}, nil
	}
	e, err := estudiantes.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	return auth.EstudiantePrincipal{Estudiante: e}, nil
}

// RequireAdmin rejects requests whose principal is not an administrator.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.EsAdmin(GetPrincipal(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(msgSoloAdmin))
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated principal, or nil on public routes.
func GetPrincipal(c *gin.Context) auth.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(auth.Principal)
	return p
}
