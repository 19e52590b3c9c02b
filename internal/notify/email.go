package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
)

type SMTPConfig struct {
	Server   string
	Port     int
	From     string
	Password string
	To       []string
}

// Email mails the operator and retries after a fixed delay, since nobody
// can answer a mail prompt.
type Email struct {
	config     SMTPConfig
	retryDelay time.Duration
	send       func(addr string, auth smtp.Auth, mail *email.Email) error
}

func NewEmail(cfg SMTPConfig, retryDelay time.Duration) *Email {
	return &Email{
		config:     cfg,
		retryDelay: retryDelay,
		send: func(addr string, auth smtp.Auth, mail *email.Email) error {
			return mail.Send(addr, auth)
		},
	}
}

func (e *Email) Notify(ctx context.Context, message string) error {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Content Syncer <%s>", e.config.From)
	mail.To = e.config.To
	mail.Subject = "Disk space exhausted"
	mail.Text = []byte(fmt.Sprintf("%s\n\nThe write will be retried in %s.", message, e.retryDelay))

	addr := fmt.Sprintf("%s:%d", e.config.Server, e.config.Port)
	err := e.send(addr, smtp.PlainAuth("", e.config.From, e.config.Password, e.config.Server), mail)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = e.send(addr, nil, mail)
	}
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(e.retryDelay):
		return nil
	}
}
