package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"quiz-backend/internal/config"
)

// SMTPTransport delivers multipart text+HTML mail over STARTTLS.
type SMTPTransport struct {
	dialer *gomail.Dialer
}

func NewSMTPTransport(cfg config.SMTP) *SMTPTransport {
	return &SMTPTransport{
		dialer: gomail.NewDialer(cfg.Server, cfg.Port, cfg.User, cfg.Password),
	}
}

func (t *SMTPTransport) Deliver(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	if err := t.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return nil
}
