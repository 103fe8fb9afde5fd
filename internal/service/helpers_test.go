package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"dragonya/internal/apierror"
	"dragonya/internal/auth"
	"dragonya/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// passwordMultibyte has 71 characters but 132 bytes, over the bcrypt limit.
var passwordMultibyte = "Contraseña1" + strings.Repeat("ñ", 60)

// ── Collaborator fakes ───────────────────────────────────────────────────────

type correo struct{ email, token, rol string }

type notificadorFake struct {
	mu             sync.Mutex
	confirmaciones []correo
	recuperaciones []correo
	err            error
}

func (n *notificadorFake) EnviarConfirmacion(_ context.Context, email, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmaciones = append(n.confirmaciones, correo{email: email, token: token})
	return n.err
}

func (n *notificadorFake) EnviarRecuperacion(_ context.Context, email, token, rol string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recuperaciones = append(n.recuperaciones, correo{email: email, token: token, rol: rol})
	return n.err
}

type imagenesFake struct {
	guardadas  map[string][]byte
	eliminadas []string
	errGuardar error
	n          int
}

func newImagenesFake() *imagenesFake { return &imagenesFake{guardadas: map[string][]byte{}} }

func (f *imagenesFake) Guardar(_ context.Context, nombre string, _ int64, r io.Reader) (string, error) {
	if f.errGuardar != nil {
		return "", f.errGuardar
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.n++
	url := fmt.Sprintf("/uploads/publicaciones/%d-%s", f.n, nombre)
	f.guardadas[url] = b
	return url, nil
}

func (f *imagenesFake) Eliminar(_ context.Context, url string) error {
	if _, ok := f.guardadas[url]; !ok {
		return errors.New("no existe")
	}
	delete(f.guardadas, url)
	f.eliminadas = append(f.eliminadas, url)
	return nil
}

// ── Shared fixtures ──────────────────────────────────────────────────────────

func newHasher() auth.Hasher { return auth.NewBcryptHasher(bcrypt.MinCost) }

func newIssuer() *auth.TokenIssuer { return auth.NewTokenIssuer("test-secret", time.Hour) }

// secuenciaTokens returns a generator yielding tok-1, tok-2, ...
func secuenciaTokens() auth.TokenGenerator {
	var n int
	return func() (string, error) {
		n++
		return fmt.Sprintf("tok-%d", n), nil
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := newHasher().Hash(password)
	require.NoError(t, err)
	return h
}

func imagen(nombre string) *dto.ImagenUpload {
	data := []byte("fake-image")
	return &dto.ImagenUpload{Nombre: nombre, Tamanio: int64(len(data)), Archivo: bytes.NewReader(data)}
}

// assertAPIError checks both the kind and the user-facing message.
func assertAPIError(t *testing.T, err error, kind apierror.Kind, msg string) {
	t.Helper()
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, kind, apiErr.Kind, "kind for %q", apiErr.Msg)
	assert.Equal(t, msg, apiErr.Msg)
}
