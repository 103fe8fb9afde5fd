package service

import (
	"context"
	"io"
)

// Notificador delivers account emails. Implementations may be asynchronous;
// an error only means the message could not be scheduled.
type Notificador interface {
	EnviarConfirmacion(ctx context.Context, email, token string) error
	EnviarRecuperacion(ctx context.Context, email, token, rol string) error
}

// ImageStore persists uploaded listing images and returns their public URL.
type ImageStore interface {
	Guardar(ctx context.Context, nombreOriginal string, tamanio int64, r io.Reader) (string, error)
	Eliminar(ctx context.Context, url string) error
}
