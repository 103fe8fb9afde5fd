package repository_test

import (
	"context"
	"testing"

	"dragonya/internal/model"
	"dragonya/internal/repository"
	"dragonya/internal/repository/repotest"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nombres(list []model.Categoria) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Nombre
	}
	return out
}

func TestCategoriaCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	inner := repotest.NewCategorias()
	repo := repository.NewCategoriaCache(inner, rdb)
	ctx := context.Background()
	admin := uuid.New()

	libros := &model.Categoria{Nombre: "Libros", Descripcion: "x", Estado: true, AdministradorID: admin}
	require.NoError(t, repo.Crear(ctx, libros))

	list, err := repo.Listar(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Libros"}, nombres(list))
	assert.True(t, mr.Exists(repository.CategoriasActivasKey))

	// writes behind the decorator's back are not seen until invalidation
	require.NoError(t, inner.Crear(ctx, &model.Categoria{Nombre: "Apuntes", Descripcion: "x", Estado: true, AdministradorID: admin}))
	list, err = repo.Listar(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Libros"}, nombres(list))

	// the full list always goes to the store
	list, err = repo.Listar(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apuntes", "Libros"}, nombres(list))

	libros.Estado = false
	require.NoError(t, repo.Actualizar(ctx, libros))
	assert.False(t, mr.Exists(repository.CategoriasActivasKey))

	list, err = repo.Listar(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apuntes"}, nombres(list))
}

func TestCategoriaCache_RedisCaido(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	repo := repository.NewCategoriaCache(repotest.NewCategorias(), rdb)
	ctx := context.Background()

	require.NoError(t, repo.Crear(ctx, &model.Categoria{Nombre: "Libros", Descripcion: "x", Estado: true, AdministradorID: uuid.New()}))
	list, err := repo.Listar(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// escrituraConcurrente runs durante once, right after the store has been read.
type escrituraConcurrente struct {
	repository.CategoriaRepository
	durante func()
}

func (e *escrituraConcurrente) Listar(ctx context.Context, soloActivas bool) ([]model.Categoria, error) {
	list, err := e.CategoriaRepository.Listar(ctx, soloActivas)
	if e.durante != nil {
		f := e.durante
		e.durante = nil
		f()
	}
	return list, err
}

func TestCategoriaCache_EscrituraDuranteLecturaNoDejaListaVieja(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	inner := &escrituraConcurrente{CategoriaRepository: repotest.NewCategorias()}
	repo := repository.NewCategoriaCache(inner, rdb)
	ctx := context.Background()

	inner.durante = func() {
		require.NoError(t, repo.Crear(ctx, &model.Categoria{Nombre: "Libros", Descripcion: "x", Estado: true, AdministradorID: uuid.New()}))
	}

	list, err := repo.Listar(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.False(t, mr.Exists(repository.CategoriasActivasKey))

	list, err = repo.Listar(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Libros"}, nombres(list))
	assert.True(t, mr.Exists(repository.CategoriasActivasKey))
}
