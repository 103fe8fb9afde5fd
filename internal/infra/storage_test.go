package infra

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dragonya/internal/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_GuardarYEliminar(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/uploads/", 1<<20)
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Guardar(ctx, "Foto.JPG", 4, bytes.NewReader([]byte("jpeg")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/publicaciones/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	archivo := filepath.Join(dir, "publicaciones", filepath.Base(url))
	contenido, err := os.ReadFile(archivo)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(contenido))

	require.NoError(t, s.Eliminar(ctx, url))
	_, err = os.Stat(archivo)
	assert.True(t, os.IsNotExist(err))

	// deleting twice or deleting foreign URLs is harmless
	assert.NoError(t, s.Eliminar(ctx, url))
	assert.NoError(t, s.Eliminar(ctx, "https://cdn.example.com/x.png"))
	assert.Error(t, s.Eliminar(ctx, "/uploads/publicaciones/../../etc/passwd"))
}

func TestLocalStorage_Rechazos(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/uploads", 8)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Guardar(ctx, "doc.pdf", 3, bytes.NewReader([]byte("pdf")))
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = s.Guardar(ctx, "a.png", 100, bytes.NewReader(make([]byte, 100)))
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	// declared size lies; the stream is still capped
	_, err = s.Guardar(ctx, "a.png", 1, bytes.NewReader(make([]byte, 100)))
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	entradas, err := os.ReadDir(filepath.Join(dir, "publicaciones"))
	require.NoError(t, err)
	assert.Empty(t, entradas)
}
