package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dragonya/internal/auth"
	"dragonya/internal/config"
	"dragonya/internal/infra"
	"dragonya/internal/model"
	"dragonya/internal/repository"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const defaultSeedTimeout = 30 * time.Second

// NewRootCmd creates the root command for the seeding CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "seedadmin",
		Short:        "Administra cuentas de administrador de DRAGONYA",
		SilenceUsage: true,
	}
	cmd.AddCommand(NewCreateCmd())
	cmd.AddCommand(NewHashCmd())
	return cmd
}

// adminSeed holds the flags of the create subcommand.
type adminSeed struct {
	email     string
	password  string
	nombre    string
	apellido  string
	celular   string
	direccion string
	timeout   time.Duration
}

// NewCreateCmd creates or updates an administrator.
func NewCreateCmd() *cobra.Command {
	seed := &adminSeed{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea o actualiza un administrador",
		Long: `Crea un administrador con el email confirmado. Si el email ya existe
actualiza sus datos y su contraseña. Es idempotente.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), seed.timeout)
			defer cancel()

			db, err := infra.NewDatabase(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			repo := repository.NewAdministradorRepository(db)
			creado, err := upsertAdmin(ctx, repo, auth.NewBcryptHasher(cfg.BcryptCost), seed)
			if err != nil {
				return err
			}
			accion := "actualizado"
			if creado {
				accion = "creado"
			}
			cmd.Printf("Administrador %s %s\n", seed.email, accion)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&seed.email, "email", "", "email del administrador")
	f.StringVar(&seed.password, "password", "", "contraseña en texto plano")
	f.StringVar(&seed.nombre, "nombre", "", "nombre")
	f.StringVar(&seed.apellido, "apellido", "", "apellido")
	f.StringVar(&seed.celular, "celular", "", "celular de 10 dígitos")
	f.StringVar(&seed.direccion, "direccion", "", "dirección")
	f.DurationVar(&seed.timeout, "timeout", defaultSeedTimeout, "timeout de las operaciones de base de datos")
	for _, name := range []string{"email", "password", "nombre", "apellido"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// NewHashCmd prints a bcrypt hash, handy for fixtures and manual SQL.
func NewHashCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash <password>",
		Short: "Imprime el hash bcrypt de una contraseña",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := auth.NewBcryptHasher(cost).Hash(args[0])
			if err != nil {
				return err
			}
			cmd.Println(h)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 10, "costo bcrypt")
	return cmd
}

// upsertAdmin reports whether a new row was inserted.
func upsertAdmin(ctx context.Context, repo repository.AdministradorRepository, hasher auth.Hasher, seed *adminSeed) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(seed.email))
	if email == "" || seed.password == "" || strings.TrimSpace(seed.nombre) == "" || strings.TrimSpace(seed.apellido) == "" {
		return false, errors.New("email, password, nombre y apellido son obligatorios")
	}
	hash, err := hasher.Hash(seed.password)
	if err != nil {
		return false, fmt.Errorf("hash: %w", err)
	}

	admin, err := repo.ObtenerPorEmail(ctx, email)
	creado := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !creado {
		return false, err
	}
	if creado {
		admin = &model.Administrador{Email: email}
	}

	admin.Nombre = strings.TrimSpace(seed.nombre)
	admin.Apellido = strings.TrimSpace(seed.apellido)
	admin.Password = hash
	admin.Rol = model.RolAdministrador
	admin.Estado = true
	admin.ConfirmEmail = true
	admin.Token = nil
	if seed.celular != "" {
		admin.Celular = &seed.celular
	}
	if seed.direccion != "" {
		admin.Direccion = &seed.direccion
	}

	if creado {
		return true, repo.Crear(ctx, admin)
	}
	return false, repo.Actualizar(ctx, admin)
}
