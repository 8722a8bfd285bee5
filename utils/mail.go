package utils

import (
	"errors"

	"github.com/limansoft/liman_backend/config"
	"gopkg.in/gomail.v2"
)

// MailSender abstracts the SMTP transport so jobs can be tested without a mail server.
type MailSender interface {
	Send(recipients []string, subject string, htmlBody string, textBody string) error
}

type SmtpMailSender struct {
	cfg config.SmtpConfig
}

func NewSmtpMailSender() *SmtpMailSender {
	return &SmtpMailSender{cfg: config.GetSmtpConfig()}
}

func (s *SmtpMailSender) Send(recipients []string, subject string, htmlBody string, textBody string) error {
	if len(recipients) == 0 {
		return nil
	}
	if s.cfg.Host == "" {
		return errors.New("SMTP_HOST is not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
