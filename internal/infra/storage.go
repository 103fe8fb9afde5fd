package infra

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"dragonya/internal/apierror"
)

const carpetaPublicaciones = "publicaciones"

var formatosPermitidos = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// LocalStorage keeps listing images on disk under dir and serves them from baseURL.
type LocalStorage struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewLocalStorage(dir, baseURL string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(dir, carpetaPublicaciones), 0o755); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}, nil
}

// Dir is the root directory served statically at the base URL.
func (s *LocalStorage) Dir() string { return s.dir }

// Guardar writes r under a random name and returns its public URL.
// Unsupported formats and oversized files fail with a validation error.
func (s *LocalStorage) Guardar(_ context.Context, nombreOriginal string, tamanio int64, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(nombreOriginal))
	if !formatosPermitidos[ext] {
		return "", apierror.Validation("Formato de imagen no permitido, usa jpg, jpeg, png o webp")
	}
	if tamanio > s.maxBytes {
		return "", apierror.Validation(fmt.Sprintf("La imagen no debe superar %d MB", s.maxBytes>>20))
	}

	nombre, err := nombreAleatorio(ext)
	if err != nil {
		return "", err
	}
	destino := filepath.Join(s.dir, carpetaPublicaciones, nombre)
	f, err := os.OpenFile(destino, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}

	// the declared size comes from the client; enforce it on the stream too
	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > s.maxBytes {
		err = apierror.Validation(fmt.Sprintf("La imagen no debe superar %d MB", s.maxBytes>>20))
	}
	if err != nil {
		_ = os.Remove(destino)
		return "", err
	}
	return path.Join(s.baseURL, carpetaPublicaciones, nombre), nil
}

// Eliminar removes the file behind a URL returned by Guardar.
// URLs outside the base path are ignored.
func (s *LocalStorage) Eliminar(_ context.Context, url string) error {
	prefijo := path.Join(s.baseURL, carpetaPublicaciones) + "/"
	if !strings.HasPrefix(url, prefijo) {
		return nil
	}
	nombre := strings.TrimPrefix(url, prefijo)
	if nombre == "" || strings.ContainsAny(nombre, `/\`) || strings.Contains(nombre, "..") {
		return errors.New("storage: nombre de archivo invalido")
	}
	err := os.Remove(filepath.Join(s.dir, carpetaPublicaciones, nombre))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func nombreAleatorio(ext string) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	return hex.EncodeToString(b) + ext, nil
}
