package notify

import (
	"context"
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"quiz-backend/internal/config"
	"quiz-backend/internal/logging"
)

// Placeholder credentials shipped as configuration defaults. A sender still
// using either one is treated as unconfigured.
const (
	PlaceholderUser     = "your-email@gmail.com"
	PlaceholderPassword = "your-app-password"
)

// ErrDelivery wraps transport failures. Send converts it to a false return.
var ErrDelivery = errors.New("email delivery failed")

var mailboxPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

type Sender struct {
	cfg       config.SMTP
	transport Transport
	log       *logging.Logger
	validate  *validator.Validate
}

// NewSender uses SMTP delivery when transport is nil.
func NewSender(cfg config.SMTP, transport Transport, log *logging.Logger) *Sender {
	if transport == nil {
		transport = NewSMTPTransport(cfg)
	}

	v := validator.New()
	_ = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return mailboxPattern.MatchString(fl.Field().String())
	})

	return &Sender{
		cfg:       cfg,
		transport: transport,
		log:       log,
		validate:  v,
	}
}

// ValidAddress reports whether address looks like local@domain.tld.
func (s *Sender) ValidAddress(address string) bool {
	return s.validate.Var(address, "required,mailbox") == nil
}

// Configured reports whether real credentials are set.
func (s *Sender) Configured() bool {
	return s.cfg.User != "" && s.cfg.Password != "" &&
		s.cfg.User != PlaceholderUser && s.cfg.Password != PlaceholderPassword
}

// Send never returns an error: every failure is logged and reported as false.
func (s *Sender) Send(ctx context.Context, to, subject, html, text string) bool {
	if !s.ValidAddress(to) {
		s.log.Warnf("invalid email address: %q - skipping", to)
		return false
	}

	if s.cfg.DebugMode {
		s.log.Infof("[DEBUG MODE] would send email to %s", to)
		s.log.Infof("[DEBUG MODE] subject: %s", subject)
		return true
	}

	if !s.Configured() {
		s.log.Warnf("email not configured; set EMAIL_USER and EMAIL_PASSWORD or EMAIL_DEBUG_MODE=true")
		return false
	}

	err := s.transport.Deliver(ctx, Message{
		From:    s.cfg.From,
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		s.log.Errorf("failed to send email to %s: %v", to, err)
		return false
	}

	s.log.Infof("email sent to %s", to)
	return true
}
