package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"dragonya/internal/infra"
	"dragonya/internal/model"

	"github.com/rs/zerolog/log"
)

// Email job types; also used as the tipo label of email_jobs_total.
const (
	TipoConfirmacion = "confirmacion"
	TipoRecuperacion = "recuperacion"
)

// EmailPayload is the body of every job in QueueEmail.
type EmailPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
	Rol   string `json:"rol,omitempty"`
}

// Sender delivers one HTML email. *infra.Mailer implements it.
type Sender interface {
	Send(to, subject, html string) error
}

var plantillaCorreo = template.Must(template.New("correo").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h1 style="color: #b91c1c;">DRAGONYA</h1>
  <p>{{.Saludo}}</p>
  <p>{{.Texto}}</p>
  <p><a href="{{.Enlace}}" style="color: #b91c1c; font-weight: bold;">{{.Accion}}</a></p>
  <hr>
  <footer>El equipo de DRAGONYA te da la bienvenida.</footer>
</body>
</html>`))

type datosCorreo struct {
	Saludo string
	Texto  string
	Enlace string
	Accion string
}

// EmailWorker renders account emails and sends them through the SMTP breaker.
type EmailWorker struct {
	sender      Sender
	breaker     *infra.CircuitBreaker
	urlFrontend string
}

func NewEmailWorker(sender Sender, breaker *infra.CircuitBreaker, urlFrontend string) *EmailWorker {
	if urlFrontend != "" && !strings.HasSuffix(urlFrontend, "/") {
		urlFrontend += "/"
	}
	return &EmailWorker{sender: sender, breaker: breaker, urlFrontend: urlFrontend}
}

// Process sends the email described by job. Job.Type picks the template.
// Malformed payloads, unknown types and a missing SMTP host are permanent failures.
func (w *EmailWorker) Process(_ context.Context, job Job) error {
	var payload EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return Permanente(fmt.Errorf("email_worker: invalid payload: %w", err))
	}
	if payload.Email == "" || payload.Token == "" {
		return Permanente(errors.New("email_worker: empty email or token"))
	}

	asunto, html, err := w.Render(job.Type, payload)
	if err != nil {
		return Permanente(err)
	}

	err = w.breaker.Execute(func() error {
		return w.sender.Send(payload.Email, asunto, html)
	})
	if errors.Is(err, infra.ErrSMTPNoConfigurado) {
		log.Warn().Str("to", payload.Email).Msg("email_worker: SMTP not configured, message dropped")
		return Permanente(err)
	}
	if err != nil {
		return err
	}
	log.Info().Str("to", payload.Email).Str("subject", asunto).Msg("email_worker: email sent")
	return nil
}

// Render builds the subject and HTML body of a tipo email. Recovery emails
// need a Rol to pick the frontend path.
func (w *EmailWorker) Render(tipo string, payload EmailPayload) (string, string, error) {
	var asunto string
	var datos datosCorreo
	switch {
	case tipo == TipoConfirmacion:
		asunto = "Verifica tu cuenta"
		datos = datosCorreo{
			Saludo: "Hola, gracias por registrarte en DRAGONYA.",
			Texto:  "Para comenzar a publicar confirma tu correo electrónico.",
			Enlace: w.urlFrontend + "confirmar/" + payload.Token,
			Accion: "Confirmar cuenta",
		}
	case tipo == TipoRecuperacion && (payload.Rol == model.RolAdministrador || payload.Rol == model.RolEstudiante):
		ruta := "recuperar-password/"
		if payload.Rol == model.RolAdministrador {
			ruta = "administrador/recuperar-password/"
		}
		asunto = "Correo para reestablecer tu contraseña"
		datos = datosCorreo{
			Saludo: "Hola, recibimos una solicitud para reestablecer tu contraseña.",
			Texto:  "Si no fuiste tú puedes ignorar este mensaje.",
			Enlace: w.urlFrontend + ruta + payload.Token,
			Accion: "Reestablecer contraseña",
		}
	default:
		return "", "", fmt.Errorf("email_worker: unknown email %q (rol %q)", tipo, payload.Rol)
	}

	var buf bytes.Buffer
	if err := plantillaCorreo.Execute(&buf, datos); err != nil {
		return "", "", err
	}
	return asunto, buf.String(), nil
}
