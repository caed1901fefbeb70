// Package notify delivers notifications over SMTP.
package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"

	"github.com/moneymanager/money-api/internal/core/domain"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// EmailSender sends notifications as plain-text e-mail.
type EmailSender struct {
	cfg  Config
	log  zerolog.Logger
	send func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewEmailSender(cfg Config, log zerolog.Logger) *EmailSender {
	return &EmailSender{
		cfg: cfg,
		log: log,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (s *EmailSender) Send(ctx context.Context, to string, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := s.compose(to, n)
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := s.send(e, addr, auth); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	s.log.Info().Str("to", to).Str("subject", e.Subject).Msg("email sent")
	return nil
}

func (s *EmailSender) compose(to string, n domain.Notification) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{to}
	e.Subject = n.Title
	e.Text = []byte(n.Message + "\n\nMoney Manager")
	return e
}
