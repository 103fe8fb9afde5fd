package repository

import (
	"context"

	"dragonya/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PublicacionRepository interface {
	Crear(ctx context.Context, p *model.Publicacion) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Publicacion, error)
	// ObtenerDetalle is ObtenerPorID with Autor and Categoria preloaded.
	ObtenerDetalle(ctx context.Context, id uuid.UUID) (*model.Publicacion, error)
	ObtenerPorTitulo(ctx context.Context, titulo string) (*model.Publicacion, error)
	// ListarTodas returns every listing ordered by titulo, relations preloaded.
	ListarTodas(ctx context.Context) ([]model.Publicacion, error)
	// ListarDisponibles returns disponible=true listings, newest first, relations preloaded.
	ListarDisponibles(ctx context.Context) ([]model.Publicacion, error)
	// ListarPorAutor returns an author's listings, newest first, Categoria preloaded.
	ListarPorAutor(ctx context.Context, autorID uuid.UUID) ([]model.Publicacion, error)
	Actualizar(ctx context.Context, p *model.Publicacion) error
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type publicacionRepo struct{ db *gorm.DB }

func NewPublicacionRepository(db *gorm.DB) PublicacionRepository { return &publicacionRepo{db: db} }

func (r *publicacionRepo) Crear(ctx context.Context, p *model.Publicacion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *publicacionRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Publicacion, error) {
	var p model.Publicacion
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *publicacionRepo) ObtenerDetalle(ctx context.Context, id uuid.UUID) (*model.Publicacion, error) {
	var p model.Publicacion
	err := r.db.WithContext(ctx).
		Preload("Autor").
		Preload("Categoria").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *publicacionRepo) ObtenerPorTitulo(ctx context.Context, titulo string) (*model.Publicacion, error) {
	var p model.Publicacion
	if err := r.db.WithContext(ctx).Where("titulo = ?", titulo).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *publicacionRepo) ListarTodas(ctx context.Context) ([]model.Publicacion, error) {
	var list []model.Publicacion
	err := r.db.WithContext(ctx).
		Preload("Autor").
		Preload("Categoria").
		Order("titulo asc").
		Find(&list).Error
	return list, err
}

func (r *publicacionRepo) ListarDisponibles(ctx context.Context) ([]model.Publicacion, error) {
	var list []model.Publicacion
	err := r.db.WithContext(ctx).
		Preload("Autor").
		Preload("Categoria").
		Where("disponible = ?", true).
		Order("created_at desc").
		Find(&list).Error
	return list, err
}

func (r *publicacionRepo) ListarPorAutor(ctx context.Context, autorID uuid.UUID) ([]model.Publicacion, error) {
	var list []model.Publicacion
	err := r.db.WithContext(ctx).
		Preload("Categoria").
		Where("autor_id = ?", autorID).
		Order("created_at desc").
		Find(&list).Error
	return list, err
}

func (r *publicacionRepo) Actualizar(ctx context.Context, p *model.Publicacion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *publicacionRepo) Eliminar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Publicacion{}, "id = ?", id).Error
}
