// Package mailer is the outbound notification channel. Delivery is
// fire-and-forget from the caller's point of view: the confirmation flow
// treats a send failure as non-fatal.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"reviewhub/internal/config"
)

type Mailer interface {
	Send(ctx context.Context, subject, body string, to []string) error
}

// New returns an SMTP mailer when SMTP_HOST is configured and a log-only
// mailer otherwise, so development setups work without a mail server.
func New(cfg *config.Config, logger *slog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return &LogMailer{logger: logger}
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.EmailFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

type SMTPMailer struct {
	host     string
	port     int
	from     string
	username string
	password string
}

func (m *SMTPMailer) Send(ctx context.Context, subject, body string, to []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(addr, auth, m.from, to, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogMailer writes the message to the log instead of delivering it.
type LogMailer struct {
	logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, subject, body string, to []string) error {
	m.logger.Info("outbound email (SMTP not configured)",
		"to", strings.Join(to, ", "),
		"subject", subject,
		"body", body,
	)
	return nil
}
