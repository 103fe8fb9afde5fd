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
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	msgPublicacionNoExiste   = "Publicación no encontrada"
	msgSinPermisoEditar      = "No tienes permisos para editar esta publicación"
	msgSinPermisoEstado      = "No tienes permisos para cambiar el estado de esta publicación"
	msgSinPermisoEliminar    = "No tienes permisos para eliminar esta publicación"
	msgCategoriaInvalida     = "Categoría inválida"
	msgCategoriaInexistente  = "La categoría no existe"
	msgErrorCrearPublicacion = "Error al crear la publicación"

	MsgPublicacionEditada   = "Publicación editada exitosamente"
	MsgPublicacionEliminada = "Publicación eliminada exitosamente"
)

// PublicacionService manages student listings.
type PublicacionService interface {
	Crear(ctx context.Context, p auth.Principal, req dto.CrearPublicacionRequest, img *dto.ImagenUpload) (dto.PublicacionResponse, error)
	Listar(ctx context.Context, p auth.Principal) ([]dto.PublicacionResponse, error)
	ObtenerPorTitulo(ctx context.Context, titulo string) (dto.PublicacionResponse, error)
	ObtenerDetalle(ctx context.Context, id string) (dto.PublicacionResponse, error)
	Actualizar(ctx context.Context, p auth.Principal, id string, req dto.ActualizarPublicacionRequest) (dto.PublicacionResponse, error)
	CambiarEstado(ctx context.Context, p auth.Principal, id string) (dto.EstadoResponse, error)
	CambiarVendida(ctx context.Context, p auth.Principal, id string) (dto.EstadoResponse, error)
	Eliminar(ctx context.Context, p auth.Principal, id string) error
	// ListarPorUsuario returns the caller's own listings; administrators must name the student.
	ListarPorUsuario(ctx context.Context, p auth.Principal, estudianteID string) ([]dto.PublicacionResponse, error)
}

type publicacionService struct {
	repo        repository.PublicacionRepository
	estudiantes repository.EstudianteRepository
	categorias  repository.CategoriaRepository
	imagenes    ImageStore
}

func NewPublicacionService(
	repo repository.PublicacionRepository,
	estudiantes repository.EstudianteRepository,
	categorias repository.CategoriaRepository,
	imagenes ImageStore,
) PublicacionService {
	return &publicacionService{repo: repo, estudiantes: estudiantes, categorias: categorias, imagenes: imagenes}
}

func mapPublicacion(p *model.Publicacion) dto.PublicacionResponse {
	r := dto.PublicacionResponse{
		ID:          p.ID,
		Titulo:      p.Titulo,
		Descripcion: p.Descripcion,
		Imagen:      p.Imagen,
		Precio:      p.Precio,
		Estado:      p.Estado,
		Disponible:  p.Disponible,
		AutorID:     p.AutorID,
		CategoriaID: p.CategoriaID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Autor != nil {
		r.Autor = &dto.AutorResumen{
			ID:       p.Autor.ID,
			Nombre:   p.Autor.Nombre,
			Apellido: p.Autor.Apellido,
			Email:    p.Autor.Email,
			Celular:  p.Autor.Celular,
		}
	}
	if p.Categoria != nil {
		r.Categoria = &dto.CategoriaResumen{ID: p.Categoria.ID, Nombre: p.Categoria.Nombre}
	}
	return r
}

func mapPublicaciones(list []model.Publicacion) []dto.PublicacionResponse {
	result := make([]dto.PublicacionResponse, 0, len(list))
	for i := range list {
		result = append(result, mapPublicacion(&list[i]))
	}
	return result
}

// categoriaExistente parses raw and checks the category row exists.
func (s *publicacionService) categoriaExistente(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := parseID(raw, msgCategoriaInvalida)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.categorias.ObtenerPorID(ctx, id); err != nil {
		if esNoEncontrado(err) {
			return uuid.Nil, apierror.NotFound(msgCategoriaInexistente)
		}
		return uuid.Nil, apierror.Internal("Error al obtener la categoría", err)
	}
	return id, nil
}

func (s *publicacionService) Crear(ctx context.Context, p auth.Principal, req dto.CrearPublicacionRequest, img *dto.ImagenUpload) (dto.PublicacionResponse, error) {
	if algunoVacio(req.Titulo, req.Descripcion, req.Categoria, req.Precio) {
		return dto.PublicacionResponse{}, apierror.Validation(msgCamposObligatorios)
	}
	est := auth.EstudianteDe(p)
	if est == nil {
		return dto.PublicacionResponse{}, apierror.Unauthorized(msgNoAutorizado)
	}
	if _, err := s.estudiantes.ObtenerPorID(ctx, est.ID); err != nil {
		if esNoEncontrado(err) {
			return dto.PublicacionResponse{}, apierror.NotFound("El autor no existe")
		}
		return dto.PublicacionResponse{}, apierror.InternalDetalle(msgErrorCrearPublicacion, err)
	}
	categoriaID, err := s.categoriaExistente(ctx, req.Categoria)
	if err != nil {
		return dto.PublicacionResponse{}, err
	}
	precio, err := decimal.NewFromString(strings.TrimSpace(req.Precio))
	if err != nil || precio.IsNegative() {
		return dto.PublicacionResponse{}, apierror.Validation("El precio debe ser un número positivo")
	}
	if img == nil || img.Archivo == nil {
		return dto.PublicacionResponse{}, apierror.Validation("La imagen es obligatoria")
	}

	url, err := s.imagenes.Guardar(ctx, img.Nombre, img.Tamanio, img.Archivo)
	if err != nil {
		if apierror.KindOf(err) == apierror.KindValidation {
			return dto.PublicacionResponse{}, err
		}
		return dto.PublicacionResponse{}, apierror.InternalDetalle(msgErrorCrearPublicacion, err)
	}

	pub := &model.Publicacion{
		Titulo:      strings.TrimSpace(req.Titulo),
		Descripcion: strings.TrimSpace(req.Descripcion),
		AutorID:     est.ID,
		CategoriaID: categoriaID,
		Imagen:      url,
		Precio:      precio.Round(2),
		Estado:      true,
		Disponible:  true,
	}
	if err := s.repo.Crear(ctx, pub); err != nil {
		s.eliminarImagen(ctx, url)
		return dto.PublicacionResponse{}, apierror.InternalDetalle(msgErrorCrearPublicacion, err)
	}
	return mapPublicacion(pub), nil
}

func (s *publicacionService) Listar(ctx context.Context, p auth.Principal) ([]dto.PublicacionResponse, error) {
	var (
		list []model.Publicacion
		err  error
	)
	if auth.EsAdmin(p) {
		list, err = s.repo.ListarTodas(ctx)
	} else {
		list, err = s.repo.ListarDisponibles(ctx)
	}
	if err != nil {
		return nil, apierror.Internal("Error al obtener las publicaciones", err)
	}
	return mapPublicaciones(list), nil
}

func (s *publicacionService) ObtenerPorTitulo(ctx context.Context, titulo string) (dto.PublicacionResponse, error) {
	pub, err := s.repo.ObtenerPorTitulo(ctx, titulo)
	if err != nil {
		if esNoEncontrado(err) {
			return dto.PublicacionResponse{}, apierror.NotFound(msgPublicacionNoExiste)
		}
		return dto.PublicacionResponse{}, apierror.Internal("Error al obtener la publicación", err)
	}
	return mapPublicacion(pub), nil
}

func (s *publicacionService) ObtenerDetalle(ctx context.Context, rawID string) (dto.PublicacionResponse, error) {
	id, err := parseID(rawID, msgIDInvalido)
	if err != nil {
		return dto.PublicacionResponse{}, err
	}
	pub, err := s.repo.ObtenerDetalle(ctx, id)
	if err != nil {
		if esNoEncontrado(err) {
			return dto.PublicacionResponse{}, apierror.NotFound(msgPublicacionNoExiste)
		}
		return dto.PublicacionResponse{}, apierror.Internal("Error al obtener la publicación", err)
	}
	return mapPublicacion(pub), nil
}

// cargar parses rawID and loads the listing it names.
func (s *publicacionService) cargar(ctx context.Context, rawID string) (*model.Publicacion, error) {
	id, err := parseID(rawID, msgIDInvalido)
	if err != nil {
		return nil, err
	}
	pub, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if esNoEncontrado(err) {
			return nil, apierror.NotFound(msgPublicacionNoExiste)
		}
		return nil, apierror.Internal("Error al obtener la publicación", err)
	}
	return pub, nil
}

func esAutor(p auth.Principal, pub *model.Publicacion) bool {
	e := auth.EstudianteDe(p)
	return e != nil && e.ID == pub.AutorID
}

func (s *publicacionService) Actualizar(ctx context.Context, p auth.Principal, rawID string, req dto.ActualizarPublicacionRequest) (dto.PublicacionResponse, error) {
	id, err := parseID(rawID, msgIDInvalido)
	if err != nil {
		return dto.PublicacionResponse{}, err
	}
	if algunoVacio(req.Titulo, req.Descripcion, req.Categoria) {
		return dto.PublicacionResponse{}, apierror.Validation(msgCamposObligatorios)
	}
	pub, err := s.cargar(ctx, id.String())
	if err != nil {
		return dto.PublicacionResponse{}, err
	}
	if !esAutor(p, pub) {
		return dto.PublicacionResponse{}, apierror.Forbidden(msgSinPermisoEditar)
	}
	categoriaID, err := s.categoriaExistente(ctx, req.Categoria)
	if err != nil {
		return dto.PublicacionResponse{}, err
	}

	pub.Titulo = strings.TrimSpace(req.Titulo)
	pub.Descripcion = strings.TrimSpace(req.Descripcion)
	pub.CategoriaID = categoriaID
	if err := s.repo.Actualizar(ctx, pub); err != nil {
		return dto.PublicacionResponse{}, apierror.Internal("Error al actualizar la publicación", err)
	}
	return mapPublicacion(pub), nil
}

func (s *publicacionService) CambiarEstado(ctx context.Context, p auth.Principal, rawID string) (dto.EstadoResponse, error) {
	pub, err := s.cargar(ctx, rawID)
	if err != nil {
		return dto.EstadoResponse{}, err
	}
	if !esAutor(p, pub) && !auth.EsAdmin(p) {
		return dto.EstadoResponse{}, apierror.Forbidden(msgSinPermisoEstado)
	}
	pub.Estado = !pub.Estado
	if err := s.repo.Actualizar(ctx, pub); err != nil {
		return dto.EstadoResponse{}, apierror.Internal("Error al inactivar la publicación", err)
	}
	msg := "Publicación inactivada exitosamente"
	if pub.Estado {
		msg = "Publicación activada exitosamente"
	}
	return dto.EstadoResponse{Msg: msg, Estado: pub.Estado}, nil
}

func (s *publicacionService) CambiarVendida(ctx context.Context, p auth.Principal, rawID string) (dto.EstadoResponse, error) {
	pub, err := s.cargar(ctx, rawID)
	if err != nil {
		return dto.EstadoResponse{}, err
	}
	if !esAutor(p, pub) {
		return dto.EstadoResponse{}, apierror.Forbidden(msgSinPermisoEstado)
	}
	pub.Disponible = !pub.Disponible
	if err := s.repo.Actualizar(ctx, pub); err != nil {
		return dto.EstadoResponse{}, apierror.Internal("Error al cambiar el estado de la publicación", err)
	}
	msg := "Publicación marcada como vendida exitosamente"
	if pub.Disponible {
		msg = "Publicación desmarcada como vendida exitosamente"
	}
	return dto.EstadoResponse{Msg: msg, Estado: pub.Disponible}, nil
}

func (s *publicacionService) Eliminar(ctx context.Context, p auth.Principal, rawID string) error {
	pub, err := s.cargar(ctx, rawID)
	if err != nil {
		return err
	}
	if !esAutor(p, pub) && !auth.EsAdmin(p) {
		return apierror.Forbidden(msgSinPermisoEliminar)
	}
	if err := s.repo.Eliminar(ctx, pub.ID); err != nil {
		return apierror.Internal("Error al eliminar la publicación", err)
	}
	s.eliminarImagen(ctx, pub.Imagen)
	return nil
}

func (s *publicacionService) ListarPorUsuario(ctx context.Context, p auth.Principal, estudianteID string) ([]dto.PublicacionResponse, error) {
	var autor uuid.UUID
	switch v := p.(type) {
	case auth.AdminPrincipal:
		id, err := parseID(estudianteID, "ID de usuario no válido")
		if err != nil {
			return nil, err
		}
		autor = id
	case auth.EstudiantePrincipal:
		autor = v.Estudiante.ID
	default:
		return nil, apierror.Unauthorized(msgNoAutorizado)
	}
	list, err := s.repo.ListarPorAutor(ctx, autor)
	if err != nil {
		return nil, apierror.Internal("Error al obtener tus publicaciones", err)
	}
	return mapPublicaciones(list), nil
}

// eliminarImagen removes a stored image; failures only leave an orphan file.
func (s *publicacionService) eliminarImagen(ctx context.Context, url string) {
	if err := s.imagenes.Eliminar(ctx, url); err != nil {
		log.Warn().Err(err).Str("imagen", url).Msg("no se pudo eliminar la imagen")
	}
}
