package infra

import (
	"fmt"
	"time"

	"dragonya/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection, migrates the four tables and applies
// the idempotent SQL patches that struct tags cannot express.
// TranslateError makes unique violations surface as gorm.ErrDuplicatedKey.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the schema. Safe to call on every start.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	// order matters: categorias references administradores, publicaciones both others
	if err := db.AutoMigrate(
		&model.Administrador{},
		&model.Estudiante{},
		&model.Categoria{},
		&model.Publicacion{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// fully handle on its own. Each statement uses IF NOT EXISTS semantics so
// re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// feed query: WHERE disponible ORDER BY created_at DESC
		{"idx_publicaciones_disponible_created", `
CREATE INDEX IF NOT EXISTS idx_publicaciones_disponible_created
    ON publicaciones (disponible, created_at DESC)`},
		{"idx_publicaciones_autor_created", `
CREATE INDEX IF NOT EXISTS idx_publicaciones_autor_created
    ON publicaciones (autor_id, created_at DESC)`},
		// one-time tokens are only looked up when set
		{"idx_estudiantes_token_pendiente", `
CREATE INDEX IF NOT EXISTS idx_estudiantes_token_pendiente
    ON estudiantes (token) WHERE token IS NOT NULL`},
		{"idx_administradores_token_pendiente", `
CREATE INDEX IF NOT EXISTS idx_administradores_token_pendiente
    ON administradores (token) WHERE token IS NOT NULL`},
		{"chk_estudiantes_celular", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_estudiantes_celular') THEN
    ALTER TABLE estudiantes ADD CONSTRAINT chk_estudiantes_celular CHECK (celular ~ '^[0-9]{10}$');
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
