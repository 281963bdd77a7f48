package mail

import (
	"fmt"

	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/pkg/config"
	"github.com/jhoicas/tours-api/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Mailer implementa el notificador de auth sobre SMTP (gomail).
// Sin SMTP_HOST configurado no envía nada y solo registra en el log,
// para poder desarrollar sin un servidor de correo.
type Mailer struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewMailer construye el notificador SMTP.
func NewMailer(cfg config.SMTPConfig, log *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// SendWelcome envía el email de bienvenida tras el registro.
func (m *Mailer) SendWelcome(user *entity.User, url string) error {
	body := fmt.Sprintf(
		"Hola %s,\n\n¡Bienvenido a la familia Tours! Completa tu perfil aquí: %s\n",
		user.Name, url,
	)
	return m.send(user.Email, "¡Bienvenido a Tours!", body)
}

// SendPasswordReset envía el enlace de recuperación de contraseña.
// El token plano solo viaja en este email; en la base queda únicamente su digest.
func (m *Mailer) SendPasswordReset(user *entity.User, resetURL string) error {
	body := fmt.Sprintf(
		"Hola %s,\n\n¿Olvidaste tu contraseña? Envía un PATCH con tu nueva contraseña a: %s\n"+
			"El enlace es válido solo 10 minutos. Si no lo pediste, ignora este email.\n",
		user.Name, resetURL,
	)
	return m.send(user.Email, "Tu token de recuperación (válido 10 min)", body)
}

func (m *Mailer) send(to, subject, body string) error {
	if m.cfg.Host == "" {
		// Modo development: no hay SMTP, dejamos constancia sin el cuerpo
		// (el cuerpo del reset contiene el token plano).
		m.log.Info().Str("to", to).Str("subject", subject).Msg("email simulado (SMTP sin configurar)")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar email: %w", err)
	}
	return nil
}
