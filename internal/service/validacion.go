package service

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"dragonya/internal/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgCamposVacios       = "Lo sentimos, debes llenar todos los campos"
	msgCamposObligatorios = "Todos los campos son obligatorios"
	msgCelularInvalido    = "El número de celular debe tener 10 dígitos"
	msgNoAutorizado       = "No autorizado"
	msgIDInvalido         = "ID no válido"
	msgUsuarioNoExiste    = "Lo sentimos, el usuario no se encuentra registrado"
	msgPasswordIncorrecto = "Lo sentimos, el password no es el correcto"
	msgTokenInvalido      = "Lo sentimos, no se puede validar la cuenta"
	msgPasswordLarga      = "La contraseña no debe superar los 72 bytes"
)

// bcrypt rejects longer inputs; the limit is in bytes, not characters.
const maxPasswordBytes = 72

var validate = validator.New()

// algunoVacio reports whether any value is empty after trimming whitespace.
func algunoVacio(vals ...string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// celularValido accepts exactly ten ASCII digits; signs and decimal points are rejected.
func celularValido(celular string) bool {
	return validate.Var(celular, "required,number,len=10") == nil
}

func tieneDigito(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func tieneMayuscula(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func normalizarEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validarPasswordRegistro applies the sign-up policy: length, then digit, then uppercase.
func validarPasswordRegistro(p string) error {
	switch {
	case utf8.RuneCountInString(p) < 8:
		return apierror.Validation("La contraseña debe tener minimo 8 digitos")
	case len(p) > maxPasswordBytes:
		return apierror.Validation(msgPasswordLarga)
	case !tieneDigito(p):
		return apierror.Validation("La contraseña debe contener al menos un número")
	case !tieneMayuscula(p):
		return apierror.Validation("La contraseña debe contener al menos una mayúscula")
	}
	return nil
}

// validarCambioPassword applies the in-session policy: uppercase, digit, length, match.
func validarCambioPassword(nueva, repetir string) error {
	switch {
	case !tieneMayuscula(nueva):
		return apierror.Validation("La contraseña debe tener al menos una letra mayúscula")
	case !tieneDigito(nueva):
		return apierror.Validation("La contraseña debe contener al menos un número")
	case utf8.RuneCountInString(nueva) < 8:
		return apierror.Validation("La nueva contraseña debe tener al menos 8 caracteres")
	case len(nueva) > maxPasswordBytes:
		return apierror.Validation(msgPasswordLarga)
	case nueva != repetir:
		return apierror.Validation("Las nuevas contraseñas no coinciden")
	}
	return nil
}

// validarNuevoPassword is the token-based reset policy; it only enforces a minimum length.
func validarNuevoPassword(req nuevoPassword) error {
	switch {
	case req.password == "" || req.confirmacion == "":
		return apierror.Validation(msgCamposVacios)
	case utf8.RuneCountInString(req.password) < 6:
		return apierror.Validation("La contraseña debe tener al menos 6 caracteres")
	case len(req.password) > maxPasswordBytes:
		return apierror.Validation(msgPasswordLarga)
	case req.password != req.confirmacion:
		return apierror.Validation("Lo sentimos, los passwords no coinciden")
	}
	return nil
}

type nuevoPassword struct{ password, confirmacion string }

func parseID(raw, msg string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apierror.Validation(msg)
	}
	return id, nil
}

func esNoEncontrado(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func esDuplicado(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
