package service_test

import (
	"context"
	"testing"

	"dragonya/internal/apierror"
	"dragonya/internal/auth"
	"dragonya/internal/dto"
	"dragonya/internal/model"
	"dragonya/internal/repository/repotest"
	"dragonya/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminPrincipal() auth.Principal {
	return auth.AdminPrincipal{Administrador: &model.Administrador{ID: uuid.New(), Rol: model.RolAdministrador}}
}

func estudiantePrincipal() auth.Principal {
	return auth.EstudiantePrincipal{Estudiante: &model.Estudiante{ID: uuid.New(), Rol: model.RolEstudiante}}
}

func TestCategoria_RoundTrip(t *testing.T) {
	svc := service.NewCategoriaService(repotest.NewCategorias())
	ctx := context.Background()

	creada, err := svc.Crear(ctx, adminPrincipal(), dto.CategoriaRequest{Nombre: "  Libros ", Descripcion: "Texto"})
	require.NoError(t, err)
	assert.True(t, creada.Estado)

	leida, err := svc.ObtenerPorNombre(ctx, "Libros")
	require.NoError(t, err)
	assert.Equal(t, "Libros", leida.Nombre)
	assert.Equal(t, "Texto", leida.Descripcion)
	assert.True(t, leida.Estado)
	assert.Equal(t, creada.ID, leida.ID)

	_, err = svc.ObtenerPorNombre(ctx, "libros")
	assertAPIError(t, err, apierror.KindNotFound, "Categoría no encontrada")
}

func TestCategoriaCrear_Reglas(t *testing.T) {
	svc := service.NewCategoriaService(repotest.NewCategorias())
	ctx := context.Background()
	_, err := svc.Crear(ctx, adminPrincipal(), dto.CategoriaRequest{Nombre: "Libros", Descripcion: "Texto"})
	require.NoError(t, err)

	_, err = svc.Crear(ctx, adminPrincipal(), dto.CategoriaRequest{Nombre: " ", Descripcion: "Texto"})
	assertAPIError(t, err, apierror.KindValidation, "Todos los campos son obligatorios")

	_, err = svc.Crear(ctx, adminPrincipal(), dto.CategoriaRequest{Nombre: "Libros ", Descripcion: "Otra"})
	assertAPIError(t, err, apierror.KindConflict, "El nombre de la categoría ya existe")

	_, err = svc.Crear(ctx, estudiantePrincipal(), dto.CategoriaRequest{Nombre: "Ropa", Descripcion: "Prendas"})
	assertAPIError(t, err, apierror.KindForbidden, "Acceso denegado. Solo un administrador puede crear categorías.")
}

func TestCategoriaListar_VisibilidadPorRol(t *testing.T) {
	svc := service.NewCategoriaService(repotest.NewCategorias())
	ctx := context.Background()
	admin := adminPrincipal()

	for _, nombre := range []string{"Tecnología", "Apuntes", "Libros"} {
		_, err := svc.Crear(ctx, admin, dto.CategoriaRequest{Nombre: nombre, Descripcion: "d"})
		require.NoError(t, err)
	}
	libros, err := svc.ObtenerPorNombre(ctx, "Libros")
	require.NoError(t, err)
	_, err = svc.CambiarEstado(ctx, libros.ID.String())
	require.NoError(t, err)

	todas, err := svc.Listar(ctx, admin)
	require.NoError(t, err)
	require.Len(t, todas, 3)
	assert.Equal(t, []string{"Apuntes", "Libros", "Tecnología"}, nombres(todas))

	activas, err := svc.Listar(ctx, estudiantePrincipal())
	require.NoError(t, err)
	assert.Equal(t, []string{"Apuntes", "Tecnología"}, nombres(activas))

	anonimas, err := svc.Listar(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, anonimas, 2)
}

func nombres(list []dto.CategoriaResponse) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Nombre
	}
	return out
}

func TestCategoriaActualizar(t *testing.T) {
	svc := service.NewCategoriaService(repotest.NewCategorias())
	ctx := context.Background()
	libros, err := svc.Crear(ctx, adminPrincipal(), dto.CategoriaRequest{Nombre: "Libros", Descripcion: "Texto"})
	require.NoError(t, err)
	ropa, err := svc.Crear(ctx, adminPrincipal(), dto.CategoriaRequest{Nombre: "Ropa", Descripcion: "Prendas"})
	require.NoError(t, err)

	_, err = svc.Actualizar(ctx, ropa.ID.String(), dto.CategoriaRequest{Nombre: "Libros", Descripcion: "x"})
	assertAPIError(t, err, apierror.KindConflict, "El nombre de la categoría ya existe")

	// keeping its own name is not a collision
	actualizada, err := svc.Actualizar(ctx, libros.ID.String(), dto.CategoriaRequest{Nombre: "Libros", Descripcion: "Usados"})
	require.NoError(t, err)
	assert.Equal(t, "Usados", actualizada.Descripcion)

	_, err = svc.Actualizar(ctx, libros.ID.String(), dto.CategoriaRequest{Nombre: "", Descripcion: "x"})
	assertAPIError(t, err, apierror.KindValidation, "Todos los campos son obligatorios")
	_, err = svc.Actualizar(ctx, uuid.NewString(), dto.CategoriaRequest{Nombre: "Nueva", Descripcion: "x"})
	assertAPIError(t, err, apierror.KindNotFound, "Categoría no encontrada")
	_, err = svc.Actualizar(ctx, "123", dto.CategoriaRequest{Nombre: "Nueva", Descripcion: "x"})
	assertAPIError(t, err, apierror.KindValidation, "ID no válido")
}

func TestCategoriaCambiarEstado_DobleToggle(t *testing.T) {
	svc := service.NewCategoriaService(repotest.NewCategorias())
	ctx := context.Background()
	c, err := svc.Crear(ctx, adminPrincipal(), dto.CategoriaRequest{Nombre: "Libros", Descripcion: "Texto"})
	require.NoError(t, err)

	r1, err := svc.CambiarEstado(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Categoría inactivada exitosamente", r1.Msg)
	assert.False(t, r1.Categoria.Estado)

	r2, err := svc.CambiarEstado(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Categoría activada exitosamente", r2.Msg)
	assert.Equal(t, c.Estado, r2.Categoria.Estado)

	_, err = svc.CambiarEstado(ctx, "nope")
	assertAPIError(t, err, apierror.KindValidation, "ID no válido")
	_, err = svc.CambiarEstado(ctx, uuid.NewString())
	assertAPIError(t, err, apierror.KindNotFound, "Categoría no encontrada")
}
