package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"dragonya/internal/auth"
	"dragonya/internal/model"
	"dragonya/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashCmd(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"hash", "Secreta123", "--cost", "4"})

	require.NoError(t, cmd.Execute())
	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("Secreta123")))
}

func TestHashCmd_RequiereArgumento(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"hash"})
	assert.Error(t, cmd.Execute())
}

func TestUpsertAdmin(t *testing.T) {
	ctx := context.Background()
	repo := repotest.NewAdministradores()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	seed := &adminSeed{email: " Admin@Dragonya.com ", password: "Inicial123", nombre: "Ana", apellido: "Paz", celular: "0991234567"}
	creado, err := upsertAdmin(ctx, repo, hasher, seed)
	require.NoError(t, err)
	assert.True(t, creado)

	a, err := repo.ObtenerPorEmail(ctx, "admin@dragonya.com")
	require.NoError(t, err)
	assert.Equal(t, model.RolAdministrador, a.Rol)
	assert.True(t, a.ConfirmEmail)
	assert.True(t, a.Estado)
	require.NotNil(t, a.Celular)
	assert.Equal(t, "0991234567", *a.Celular)
	ok, err := hasher.Comparar(a.Password, "Inicial123")
	require.NoError(t, err)
	assert.True(t, ok)

	// second run updates in place
	seed.password = "Cambiada123"
	seed.nombre = "Ana María"
	creado, err = upsertAdmin(ctx, repo, hasher, seed)
	require.NoError(t, err)
	assert.False(t, creado)

	a2, err := repo.ObtenerPorEmail(ctx, "admin@dragonya.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, a2.ID)
	assert.Equal(t, "Ana María", a2.Nombre)
	ok, err = hasher.Comparar(a2.Password, "Cambiada123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpsertAdmin_CamposObligatorios(t *testing.T) {
	_, err := upsertAdmin(context.Background(), repotest.NewAdministradores(), auth.NewBcryptHasher(bcrypt.MinCost),
		&adminSeed{email: "a@b.com", password: "x"})
	assert.Error(t, err)
}
