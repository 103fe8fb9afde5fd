package infra

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"

	"dragonya/internal/config"

	"github.com/jordan-wright/email"
)

// ErrSMTPNoConfigurado is returned by Send when SMTP_HOST is empty.
var ErrSMTPNoConfigurado = errors.New("mailer: SMTP_HOST no configurado")

// Mailer sends HTML emails through the configured SMTP relay.
// Port 465 uses implicit TLS; any other port goes through STARTTLS when offered.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Send delivers one HTML message to a single recipient.
func (m *Mailer) Send(to, subject, html string) error {
	if m.host == "" {
		return ErrSMTPNoConfigurado
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(html)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if m.port == 465 {
		return e.SendWithTLS(m.addr, auth, &tls.Config{ServerName: m.host, MinVersion: tls.VersionTLS12})
	}
	return e.Send(m.addr, auth)
}
