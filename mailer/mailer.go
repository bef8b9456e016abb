package mailer

import (
	"context"
	"fmt"
	"strings"

	"coursehub/config"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New usa SMTP quando mail.host está configurado; senão só loga as mensagens.
func New(conf config.Configuration, logger zerolog.Logger) Mailer {
	if strings.TrimSpace(conf.Mail.Host) == "" {
		return &LogMailer{From: conf.Mail.From, Logger: logger}
	}
	return &SMTPMailer{
		From:   conf.Mail.From,
		dialer: gomail.NewDialer(conf.Mail.Host, conf.Mail.Port, conf.Mail.Username, conf.Mail.Password),
	}
}

type SMTPMailer struct {
	From   string
	dialer *gomail.Dialer
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.From)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer é o placeholder de desenvolvimento: nada sai da máquina.
type LogMailer struct {
	From   string
	Logger zerolog.Logger
}

// Send loga só o envelope; o corpo (que pode ter código de reset) sai apenas em debug.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.Logger.Info().
		Str("from", m.From).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("body_bytes", len(msg.Body)).
		Msg("email (placeholder)")
	m.Logger.Debug().
		Str("to", msg.To).
		Str("body", msg.Body).
		Msg("email body (placeholder)")
	return nil
}

func CancellationMessage(to string) Message {
	return Message{
		To:      to,
		Subject: "Subscription successfully cancelled",
		Body:    "Your subscription has been successfully cancelled. Thank you for using our service.",
	}
}

func PasswordResetMessage(to, code string, ttlMinutes int) Message {
	return Message{
		To:      to,
		Subject: "Your password reset code",
		Body: fmt.Sprintf("Use the code %s to reset your password.\n\nThis code expires in %d minutes.",
			code, ttlMinutes),
	}
}
