package mailer

import (
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"registrar/internal/dto"
)

var ErrNotConfigured = errors.New("mailer is not configured")

type Config struct {
	Host      string
	Port      string
	Username  string
	Password  string
	From      string
	Organizer string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg  Config
	log  *zerolog.Logger
	send sendFunc
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log, send: smtp.SendMail}
}

func (m *Mailer) Configured() bool {
	return m.cfg.Host != "" && m.cfg.From != "" && m.cfg.Organizer != ""
}

// SendRegistrationPending tells the organizer that a registration is waiting
// for payment review.
func (m *Mailer) SendRegistrationPending(reg dto.RegistrationCreatedMessage) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	subject, body := pendingMessage(reg)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		headerValue(m.cfg.From), headerValue(m.cfg.Organizer), headerValue(subject), body,
	)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, []string{m.cfg.Organizer}, []byte(msg)); err != nil {
		m.log.Warn().Msgf("failed to send email to %s: %v", m.cfg.Organizer, err)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Str("registration_id", reg.RegistrationID).Msgf("pending registration email sent to %s", m.cfg.Organizer)
	return nil
}

func pendingMessage(reg dto.RegistrationCreatedMessage) (string, string) {
	name := singleLine(reg.Name)
	subject := fmt.Sprintf("New registration pending review: %s", name)

	var b strings.Builder
	b.WriteString("A new registration is waiting for payment verification.\n\n")
	fmt.Fprintf(&b, "Registration ID: %s\n", reg.RegistrationID)
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "Branch: %s\n", reg.Branch)
	fmt.Fprintf(&b, "Batch: %s\n", reg.Batch)
	fmt.Fprintf(&b, "Payment method: %s\n", reg.PaymentMethod)
	fmt.Fprintf(&b, "Transaction ID: %s\n", reg.TransactionID)
	fmt.Fprintf(&b, "Submitted at: %s\n", reg.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	return subject, b.String()
}

// singleLine collapses every run of whitespace, line breaks included, into
// one space.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// headerValue makes s safe to place after a header name: it cannot end the
// header and non-ASCII text is Q-encoded.
func headerValue(s string) string {
	return mime.QEncoding.Encode("utf-8", singleLine(s))
}
