package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"net/smtp"
	"strings"
)

// SMTPNotifier delivers rendered messages over plain SMTP with PLAIN auth.
type SMTPNotifier struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // e.g. "AuthWizard <auth@wizard.io>"
}

func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	body, err := Render(msg.Template, msg.Variables)
	if err != nil {
		return err
	}

	from, err := mail.ParseAddress(n.From)
	if err != nil {
		return fmt.Errorf("invalid sender address %q: %w", n.From, err)
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	addr := fmt.Sprintf("%s:%d", n.Host, n.Port)
	auth := smtp.PlainAuth("", n.Username, n.Password, n.Host)

	if err := smtp.SendMail(addr, auth, from.Address, []string{to.Address}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}
	return nil
}

// LogNotifier renders messages and logs them instead of delivering.
// Used when no SMTP transport is configured (local development).
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	if _, err := Render(msg.Template, msg.Variables); err != nil {
		return err
	}

	n.Logger.Info("notification rendered (smtp not configured, not delivered)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("template", msg.Template),
	)
	return nil
}
