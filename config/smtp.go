package config

import (
	"os"
	"strconv"
	"strings"
)

// SmtpConfig is the SMTP_* bundle consumed by the mail transport.
type SmtpConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func GetSmtpConfig() SmtpConfig {
	port := 587
	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			port = n
		}
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USERNAME")
	}
	return SmtpConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     from,
	}
}
