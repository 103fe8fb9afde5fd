package repository

import (
	"context"

	"dragonya/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EstudianteRepository interface {
	Crear(ctx context.Context, e *model.Estudiante) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Estudiante, error)
	ObtenerPorEmail(ctx context.Context, email string) (*model.Estudiante, error)
	ObtenerPorToken(ctx context.Context, token string) (*model.Estudiante, error)
	Listar(ctx context.Context) ([]model.Estudiante, error)
	Actualizar(ctx context.Context, e *model.Estudiante) error
}

type estudianteRepo struct{ db *gorm.DB }

func NewEstudianteRepository(db *gorm.DB) EstudianteRepository { return &estudianteRepo{db: db} }

func (r *estudianteRepo) Crear(ctx context.Context, e *model.Estudiante) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *estudianteRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Estudiante, error) {
	var e model.Estudiante
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *estudianteRepo) ObtenerPorEmail(ctx context.Context, email string) (*model.Estudiante, error) {
	var e model.Estudiante
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *estudianteRepo) ObtenerPorToken(ctx context.Context, token string) (*model.Estudiante, error) {
	var e model.Estudiante
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *estudianteRepo) Listar(ctx context.Context) ([]model.Estudiante, error) {
	var list []model.Estudiante
	err := r.db.WithContext(ctx).Order("apellido asc, nombre asc").Find(&list).Error
	return list, err
}

func (r *estudianteRepo) Actualizar(ctx context.Context, e *model.Estudiante) error {
	return r.db.WithContext(ctx).Save(e).Error
}
