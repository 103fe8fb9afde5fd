package service

import (
	"strings"

	"dragonya/internal/apierror"
	"dragonya/internal/auth"
	"dragonya/internal/dto"

	"github.com/rs/zerolog/log"
)

const (
	MsgRevisaCorreoRecuperacion = "Revisa tu correo electrónico para reestablecer tu cuenta"
	MsgTokenConfirmadoPassword  = "Token confirmado, ya puedes crear tu nuevo password"
	MsgNuevoPasswordGuardado    = "Felicitaciones, ya puedes iniciar sesión con tu nuevo password"
	MsgPasswordActualizado      = "Contraseña actualizada exitosamente"
	MsgDatosSinCambios          = "No se realizaron cambios, los datos son los mismos."
	MsgDatosActualizados        = "Datos actualizados exitosamente"
)

// validarSolicitudCambio runs the checks that need no account: blanks, then policy.
func validarSolicitudCambio(req dto.CambiarPasswordRequest) error {
	if algunoVacio(req.PasswordActual, req.NuevaPassword, req.RepetirPassword) {
		return apierror.Validation(msgCamposObligatorios)
	}
	return validarCambioPassword(req.NuevaPassword, req.RepetirPassword)
}

// rehash verifies the current password against hashActual and hashes the new one.
func rehash(h auth.Hasher, hashActual string, req dto.CambiarPasswordRequest) (string, error) {
	ok, err := h.Comparar(hashActual, req.PasswordActual)
	if err != nil {
		return "", apierror.Internal("Error al verificar la contraseña", err)
	}
	if !ok {
		return "", apierror.Validation("La contraseña actual es incorrecta")
	}
	hash, err := h.Hash(req.NuevaPassword)
	if err != nil {
		return "", apierror.Internal("Error al actualizar la contraseña", err)
	}
	return hash, nil
}

// validarDatos trims the profile fields in place and checks them.
func validarDatos(req *dto.ActualizarDatosRequest) error {
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Apellido = strings.TrimSpace(req.Apellido)
	req.Celular = strings.TrimSpace(req.Celular)
	req.Direccion = strings.TrimSpace(req.Direccion)
	if algunoVacio(req.Nombre, req.Apellido, req.Celular, req.Direccion) {
		return apierror.Validation(msgCamposObligatorios)
	}
	if !celularValido(req.Celular) {
		return apierror.Validation(msgCelularInvalido)
	}
	return nil
}

// notificar logs a failed enqueue; the caller's response does not change.
func notificar(email, tipo string, err error) {
	if err != nil {
		log.Error().Err(err).Str("email", email).Str("tipo", tipo).Msg("no se pudo encolar el correo")
	}
}
