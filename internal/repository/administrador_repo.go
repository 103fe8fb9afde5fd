package repository

import (
	"context"

	"dragonya/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdministradorRepository persists administrator accounts.
type AdministradorRepository interface {
	Crear(ctx context.Context, a *model.Administrador) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Administrador, error)
	ObtenerPorEmail(ctx context.Context, email string) (*model.Administrador, error)
	ObtenerPorToken(ctx context.Context, token string) (*model.Administrador, error)
	Actualizar(ctx context.Context, a *model.Administrador) error
}

type administradorRepo struct{ db *gorm.DB }

func NewAdministradorRepository(db *gorm.DB) AdministradorRepository {
	return &administradorRepo{db: db}
}

func (r *administradorRepo) Crear(ctx context.Context, a *model.Administrador) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *administradorRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Administrador, error) {
	var a model.Administrador
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *administradorRepo) ObtenerPorEmail(ctx context.Context, email string) (*model.Administrador, error) {
	var a model.Administrador
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *administradorRepo) ObtenerPorToken(ctx context.Context, token string) (*model.Administrador, error) {
	var a model.Administrador
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *administradorRepo) Actualizar(ctx context.Context, a *model.Administrador) error {
	return r.db.WithContext(ctx).Save(a).Error
}
