package service

import (
	"context"
	"strings"

	"dragonya/internal/apierror"
	"dragonya/internal/auth"
	"dragonya/internal/dto"
	"dragonya/internal/model"
	"dragonya/internal/repository"

	"github.com/google/uuid"
)

const (
	msgCategoriaDuplicada    = "El nombre de la categoría ya existe"
	msgCategoriaNoExiste     = "Categoría no encontrada"
	msgCategoriaSoloAdmin    = "Acceso denegado. Solo un administrador puede crear categorías."
	msgCategoriaActivada     = "Categoría activada exitosamente"
	msgCategoriaInactivada   = "Categoría inactivada exitosamente"
	msgErrorCrearCategoria   = "Error al crear la categoría"
	msgErrorGuardarCategoria = "Error al actualizar la categoría"
)

// CategoriaService defines business operations for listing categories.
type CategoriaService interface {
	Crear(ctx context.Context, p auth.Principal, req dto.CategoriaRequest) (dto.CategoriaResponse, error)
	// Listar shows every category to administrators and only active ones to everybody else.
	Listar(ctx context.Context, p auth.Principal) ([]dto.CategoriaResponse, error)
	ObtenerPorNombre(ctx context.Context, nombre string) (dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id string, req dto.CategoriaRequest) (dto.CategoriaResponse, error)
	CambiarEstado(ctx context.Context, id string) (dto.CategoriaMensajeResponse, error)
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c *model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:              c.ID,
		Nombre:          c.Nombre,
		Descripcion:     c.Descripcion,
		Estado:          c.Estado,
		AdministradorID: c.AdministradorID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (s *categoriaService) Crear(ctx context.Context, p auth.Principal, req dto.CategoriaRequest) (dto.CategoriaResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	descripcion := strings.TrimSpace(req.Descripcion)
	if nombre == "" || descripcion == "" {
		return dto.CategoriaResponse{}, apierror.Validation(msgCamposObligatorios)
	}

	existe, err := s.repo.ExisteNombre(ctx, nombre, uuid.Nil)
	if err != nil {
		return dto.CategoriaResponse{}, apierror.InternalDetalle(msgErrorCrearCategoria, err)
	}
	if existe {
		return dto.CategoriaResponse{}, apierror.Conflict(msgCategoriaDuplicada)
	}

	admin := auth.AdminDe(p)
	if admin == nil {
		return dto.CategoriaResponse{}, apierror.Forbidden(msgCategoriaSoloAdmin)
	}

	c := &model.Categoria{
		Nombre:          nombre,
		Descripcion:     descripcion,
		Estado:          true,
		AdministradorID: admin.ID,
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		if esDuplicado(err) {
			return dto.CategoriaResponse{}, apierror.Conflict(msgCategoriaDuplicada)
		}
		return dto.CategoriaResponse{}, apierror.InternalDetalle(msgErrorCrearCategoria, err)
	}
	return mapCategoria(c), nil
}

func (s *categoriaService) Listar(ctx context.Context, p auth.Principal) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx, !auth.EsAdmin(p))
	if err != nil {
		return nil, apierror.Internal("Error al obtener las categorías", err)
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for i := range list {
		result = append(result, mapCategoria(&list[i]))
	}
	return result, nil
}

func (s *categoriaService) ObtenerPorNombre(ctx context.Context, nombre string) (dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorNombre(ctx, strings.TrimSpace(nombre))
	if err != nil {
		if esNoEncontrado(err) {
			return dto.CategoriaResponse{}, apierror.NotFound(msgCategoriaNoExiste)
		}
		return dto.CategoriaResponse{}, apierror.Internal("Error al obtener la categoría", err)
	}
	return mapCategoria(c), nil
}

func (s *categoriaService) Actualizar(ctx context.Context, rawID string, req dto.CategoriaRequest) (dto.CategoriaResponse, error) {
	id, err := parseID(rawID, msgIDInvalido)
	if err != nil {
		return dto.CategoriaResponse{}, err
	}
	nombre := strings.TrimSpace(req.Nombre)
	descripcion := strings.TrimSpace(req.Descripcion)
	if nombre == "" || descripcion == "" {
		return dto.CategoriaResponse{}, apierror.Validation(msgCamposObligatorios)
	}

	existe, err := s.repo.ExisteNombre(ctx, nombre, id)
	if err != nil {
		return dto.CategoriaResponse{}, apierror.Internal(msgErrorGuardarCategoria, err)
	}
	if existe {
		return dto.CategoriaResponse{}, apierror.Conflict(msgCategoriaDuplicada)
	}

	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if esNoEncontrado(err) {
			return dto.CategoriaResponse{}, apierror.NotFound(msgCategoriaNoExiste)
		}
		return dto.CategoriaResponse{}, apierror.Internal(msgErrorGuardarCategoria, err)
	}
	c.Nombre = nombre
	c.Descripcion = descripcion
	if err := s.repo.Actualizar(ctx, c); err != nil {
		if esDuplicado(err) {
			return dto.CategoriaResponse{}, apierror.Conflict(msgCategoriaDuplicada)
		}
		return dto.CategoriaResponse{}, apierror.Internal(msgErrorGuardarCategoria, err)
	}
	return mapCategoria(c), nil
}

func (s *categoriaService) CambiarEstado(ctx context.Context, rawID string) (dto.CategoriaMensajeResponse, error) {
	id, err := parseID(rawID, msgIDInvalido)
	if err != nil {
		return dto.CategoriaMensajeResponse{}, err
	}
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if esNoEncontrado(err) {
			return dto.CategoriaMensajeResponse{}, apierror.NotFound(msgCategoriaNoExiste)
		}
		return dto.CategoriaMensajeResponse{}, apierror.Internal("Error al inactivar la categoría", err)
	}
	c.Estado = !c.Estado
	if err := s.repo.Actualizar(ctx, c); err != nil {
		return dto.CategoriaMensajeResponse{}, apierror.Internal("Error al inactivar la categoría", err)
	}
	msg := msgCategoriaInactivada
	if c.Estado {
		msg = msgCategoriaActivada
	}
	return dto.CategoriaMensajeResponse{Msg: msg, Categoria: mapCategoria(c)}, nil
}
