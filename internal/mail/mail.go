package mail

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/rapirent/smart-campus/internal/config"
)

// Mailer delivers a single message. Implementations must be safe for
// concurrent use; senders fire them from goroutines.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	addr string
	from string
}

func NewSMTPMailer(conf *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		addr: conf.Host + ":" + conf.Port,
		from: conf.From,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %v\r\nTo: %v\r\nSubject: %v\r\n\r\n%v\r\n", m.from, to, subject, body)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp.SendMail -> %w", err)
	}

	return nil
}

// NopMailer logs instead of sending; used when SMTP is disabled.
type NopMailer struct{}

func (NopMailer) Send(to, subject, _ string) error {
	zap.L().Info("mail delivery disabled, dropping message",
		zap.String("to", to),
		zap.String("subject", subject))

	return nil
}
